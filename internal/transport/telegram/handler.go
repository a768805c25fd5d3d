package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	filterDomain "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	filterService "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/service"
	responderService "github.com/reshetovitsme/keyword-reply-bot/internal/modules/responder/service"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/config"
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/markup"
)

const maxMessageLength = 4096

// Handler handles Telegram bot interactions
type Handler struct {
	cfg       *config.Config
	filters   *filterService.Service
	responder *responderService.Service
}

// New creates a new Telegram handler
func New(cfg *config.Config, filters *filterService.Service, responder *responderService.Service) *Handler {
	return &Handler{
		cfg:       cfg,
		filters:   filters,
		responder: responder,
	}
}

// RegisterCommands registers bot commands. /filters must precede the
// /filter prefix handler so the list command is not swallowed.
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/filters", bot.MatchTypeExact, h.handleListFilters)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/filter", bot.MatchTypePrefix, h.handleAddFilter)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stop", bot.MatchTypePrefix, h.handleStopFilter)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/rmallfilter", bot.MatchTypeExact, h.handleClearFilters)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, h.handleStats)
}

// HandleUpdate is the default handler: every non-command message runs
// through trigger matching, and chat-id migrations re-key the stored
// filters.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		// Edited messages never re-trigger filters
		return
	}

	if msg.MigrateToChatID != 0 {
		if err := h.filters.Migrate(msg.Chat.ID, msg.MigrateToChatID); err != nil {
			slog.Error("Failed to migrate filters", "old_chat_id", msg.Chat.ID, "new_chat_id", msg.MigrateToChatID, "error", err)
		}
		return
	}

	text := extractText(msg)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	filter, ok := h.responder.Match(msg.Chat.ID, text)
	if !ok {
		return
	}

	outcome := h.responder.Dispatch(ctx, filter, incomingFromMessage(msg))
	slog.Debug("Filter dispatched", "chat_id", msg.Chat.ID, "keyword", filter.Keyword, "outcome", outcome)
}

func (h *Handler) handleAddFilter(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if !h.isAdmin(ctx, b, msg) {
		h.reply(ctx, b, msg, "Only admins can add filters.")
		return
	}

	args := strings.SplitN(msg.Text, " ", 2)
	if len(args) < 2 {
		h.reply(ctx, b, msg, "Give me a keyword to reply to with this filter!")
		return
	}

	var (
		keyword string
		reply   *filterDomain.FormattedReply
	)
	if msg.ReplyToMessage != nil {
		keyword = strings.TrimSpace(args[1])
		reply = replyFromMessage(msg.ReplyToMessage)
	} else {
		var rest string
		keyword, rest = splitQuotes(args[1])
		if keyword == "" {
			return
		}
		if rest == "" {
			h.reply(ctx, b, msg, "Give me a message to reply with, or reply to one!")
			return
		}

		// Entities still index the full command text in UTF-16 units; the
		// parser shifts them back by the stripped prefix length
		offset := markup.UTF16Len(msg.Text) - markup.UTF16Len(rest)
		body, buttons := markup.ParseButtons(rest, msg.Entities, offset)
		reply = &filterDomain.FormattedReply{
			Type:    contentTypeForText(buttons),
			Body:    body,
			Buttons: buttons,
		}
	}

	if reply == nil {
		h.reply(ctx, b, msg, "Invalid filter!")
		return
	}

	filter := &filterDomain.Filter{
		ChatID:    msg.Chat.ID,
		Keyword:   keyword,
		Formatted: reply,
	}

	if err := h.filters.Add(filter); err != nil {
		switch {
		case errors.Is(err, sharederrors.ErrLimitExceeded):
			h.reply(ctx, b, msg, fmt.Sprintf("You can't have more than %d filters at once! Try removing some before adding new ones.", h.cfg.FilterLimit))
		case errors.Is(err, sharederrors.ErrEmptyResponse):
			h.reply(ctx, b, msg, "There's no message to reply with - you can't have ONLY buttons, you need a message to go with them!")
		default:
			slog.Error("Failed to save filter", "chat_id", msg.Chat.ID, "keyword", keyword, "error", err)
			h.reply(ctx, b, msg, "Failed to save that filter.")
		}
		return
	}

	h.reply(ctx, b, msg, fmt.Sprintf("Filter '%s' saved in %s!", filter.Keyword, chatName(msg)))
}

func (h *Handler) handleStopFilter(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if !h.isAdmin(ctx, b, msg) {
		h.reply(ctx, b, msg, "Only admins can stop filters.")
		return
	}

	args := strings.SplitN(msg.Text, " ", 2)
	if len(args) < 2 {
		h.reply(ctx, b, msg, "What should I stop?")
		return
	}

	err := h.filters.Remove(msg.Chat.ID, args[1])
	if errors.Is(err, sharederrors.ErrKeywordNotFound) {
		h.reply(ctx, b, msg, "That's not a filter - run /filters to get the currently active ones.")
		return
	}
	if err != nil {
		slog.Error("Failed to remove filter", "chat_id", msg.Chat.ID, "keyword", args[1], "error", err)
		h.reply(ctx, b, msg, "Failed to remove that filter.")
		return
	}

	h.reply(ctx, b, msg, fmt.Sprintf("Okay, I'll stop replying to that filter in %s.", chatName(msg)))
}

func (h *Handler) handleListFilters(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message

	keywords, err := h.filters.List(msg.Chat.ID)
	if err != nil {
		slog.Error("Failed to list filters", "chat_id", msg.Chat.ID, "error", err)
		h.reply(ctx, b, msg, "Failed to list filters.")
		return
	}

	if len(keywords) == 0 {
		h.reply(ctx, b, msg, fmt.Sprintf("No filters saved in %s!", chatName(msg)))
		return
	}

	// Chunk the listing at Telegram's message-size limit
	header := fmt.Sprintf("Filters in %s:\n", chatName(msg))
	out := header
	for _, keyword := range keywords {
		entry := fmt.Sprintf(" - %s\n", keyword)
		if len(out)+len(entry) > maxMessageLength {
			h.reply(ctx, b, msg, out)
			out = entry
			continue
		}
		out += entry
	}
	h.reply(ctx, b, msg, out)
}

func (h *Handler) handleClearFilters(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.Chat.Type == "private" {
		h.reply(ctx, b, msg, "This command is meant for groups.")
		return
	}
	if !h.isOwner(ctx, b, msg) {
		h.reply(ctx, b, msg, "This command can only be used by the chat OWNER!")
		return
	}

	count, err := h.filters.Clear(msg.Chat.ID)
	if err != nil {
		slog.Error("Failed to clear filters", "chat_id", msg.Chat.ID, "error", err)
		h.reply(ctx, b, msg, "Failed to clear filters.")
		return
	}
	if count == 0 {
		h.reply(ctx, b, msg, "No filters in this chat, nothing to stop!")
		return
	}

	h.reply(ctx, b, msg, fmt.Sprintf("Cleaned %d filters in %s", count, chatName(msg)))
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message

	stats, err := h.filters.Stats()
	if err != nil {
		slog.Error("Failed to collect stats", "error", err)
		h.reply(ctx, b, msg, "Failed to collect stats.")
		return
	}

	h.reply(ctx, b, msg, stats)
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		slog.Error("Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (h *Handler) isAdmin(ctx context.Context, b *bot.Bot, msg *models.Message) bool {
	if msg.Chat.Type == "private" {
		return true
	}
	if msg.From == nil {
		return false
	}

	member, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: msg.Chat.ID,
		UserID: msg.From.ID,
	})
	if err != nil {
		slog.Error("Failed to get chat member", "chat_id", msg.Chat.ID, "user_id", msg.From.ID, "error", err)
		return false
	}

	return member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator
}

func (h *Handler) isOwner(ctx context.Context, b *bot.Bot, msg *models.Message) bool {
	if msg.From == nil {
		return false
	}

	member, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: msg.Chat.ID,
		UserID: msg.From.ID,
	})
	if err != nil {
		slog.Error("Failed to get chat member", "chat_id", msg.Chat.ID, "user_id", msg.From.ID, "error", err)
		return false
	}

	return member.Type == models.ChatMemberTypeOwner
}

// replyFromMessage builds filter content from a replied-to message,
// preferring the attached media over its text.
func replyFromMessage(r *models.Message) *filterDomain.FormattedReply {
	caption, buttons := markup.ParseButtons(extractText(r), captionEntities(r), 0)

	switch {
	case r.Sticker != nil:
		return &filterDomain.FormattedReply{Type: filterDomain.ContentTypeSticker, FileID: r.Sticker.FileID, Buttons: buttons}
	case r.Document != nil:
		return &filterDomain.FormattedReply{Type: filterDomain.ContentTypeDocument, FileID: r.Document.FileID, Body: caption, Buttons: buttons}
	case len(r.Photo) > 0:
		// The last size is the largest
		return &filterDomain.FormattedReply{Type: filterDomain.ContentTypePhoto, FileID: r.Photo[len(r.Photo)-1].FileID, Body: caption, Buttons: buttons}
	case r.Audio != nil:
		return &filterDomain.FormattedReply{Type: filterDomain.ContentTypeAudio, FileID: r.Audio.FileID, Body: caption, Buttons: buttons}
	case r.Voice != nil:
		return &filterDomain.FormattedReply{Type: filterDomain.ContentTypeVoice, FileID: r.Voice.FileID, Body: caption, Buttons: buttons}
	case r.Video != nil:
		return &filterDomain.FormattedReply{Type: filterDomain.ContentTypeVideo, FileID: r.Video.FileID, Body: caption, Buttons: buttons}
	}

	if caption == "" && len(buttons) == 0 {
		return nil
	}
	return &filterDomain.FormattedReply{Type: contentTypeForText(buttons), Body: caption, Buttons: buttons}
}

func contentTypeForText(buttons []filterDomain.Button) filterDomain.ContentType {
	if len(buttons) > 0 {
		return filterDomain.ContentTypeButtonText
	}
	return filterDomain.ContentTypeText
}

func extractText(msg *models.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func captionEntities(msg *models.Message) []models.MessageEntity {
	if msg.Text != "" {
		return msg.Entities
	}
	return msg.CaptionEntities
}

func chatName(msg *models.Message) string {
	if msg.Chat.Type == "private" {
		return "local filters"
	}
	return msg.Chat.Title
}

// splitQuotes separates a possibly-quoted keyword from the rest of the
// argument string, so multi-word triggers can be registered. The remainder
// keeps its position as a suffix of the input so entity offsets stay
// computable.
func splitQuotes(s string) (string, string) {
	s = strings.TrimLeft(s, " ")
	if len(s) > 1 && (s[0] == '"' || s[0] == '\'') {
		if end := strings.IndexByte(s[1:], s[0]); end >= 0 {
			return s[1 : end+1], strings.TrimLeft(s[end+2:], " ")
		}
	}

	parts := strings.SplitN(s, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimLeft(parts[1], " ")
}

func incomingFromMessage(msg *models.Message) responderService.IncomingMessage {
	in := responderService.IncomingMessage{
		ChatID:        msg.Chat.ID,
		MessageID:     msg.ID,
		ChatTitle:     msg.Chat.Title,
		ChatIsPrivate: msg.Chat.Type == "private",
	}
	if msg.From != nil {
		in.SenderID = msg.From.ID
		in.FirstName = msg.From.FirstName
		in.LastName = msg.From.LastName
		in.Username = msg.From.Username
	}
	return in
}
