package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	filterRepo "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/repository"
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/markup"
)

// SendOptions carries the optional pieces of an outbound send.
type SendOptions struct {
	Caption  string
	ReplyTo  int
	Keyboard *models.InlineKeyboardMarkup
	HTML     bool
}

// Transport is the outbound send capability the dispatcher consumes. Every
// method reports failures classified as a sharederrors.DeliveryError.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, opts SendOptions) error
	SendSticker(ctx context.Context, chatID int64, fileID string, opts SendOptions) error
	SendDocument(ctx context.Context, chatID int64, fileID string, opts SendOptions) error
	SendPhoto(ctx context.Context, chatID int64, fileID string, opts SendOptions) error
	SendAudio(ctx context.Context, chatID int64, fileID string, opts SendOptions) error
	SendVoice(ctx context.Context, chatID int64, fileID string, opts SendOptions) error
	SendVideo(ctx context.Context, chatID int64, fileID string, opts SendOptions) error
}

// Outcome summarizes a dispatch: delivered on the first attempt, recovered
// through a documented fallback, or failed.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeRecovered Outcome = "recovered"
	OutcomeFailed    Outcome = "failed"
)

// IncomingMessage is the trigger-message context a dispatch renders with.
type IncomingMessage struct {
	ChatID        int64
	MessageID     int
	SenderID      int64
	FirstName     string
	LastName      string
	Username      string
	ChatTitle     string
	ChatIsPrivate bool
}

func (m IncomingMessage) renderContext() markup.RenderContext {
	return markup.RenderContext{
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Username:      m.Username,
		UserID:        m.SenderID,
		ChatTitle:     m.ChatTitle,
		ChatIsPrivate: m.ChatIsPrivate,
	}
}

const (
	unsupportedSchemeWarning = "You seem to be trying to use an unsupported URL protocol. " +
		"Telegram doesn't support buttons for some protocols, such as tg://. Please try again."
	deliveryFailedNotice = "This message couldn't be sent as its format is incorrect."
)

// Service matches incoming messages against a chat's triggers and
// dispatches the bound reply.
type Service struct {
	repo      filterRepo.Repository
	transport Transport
}

// New creates a new responder service
func New(repo filterRepo.Repository) *Service {
	return &Service{repo: repo}
}

// SetTransport sets the outbound send capability
func (s *Service) SetTransport(t Transport) {
	s.transport = t
}

// Match returns the first registered trigger (in store order) occurring in
// text as a whole word or phrase. Matching is case-insensitive and the
// keyword is taken literally. At most one filter fires per message.
func (s *Service) Match(chatID int64, text string) (*domain.Filter, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	keywords, err := s.repo.ListKeywords(chatID)
	if err != nil {
		slog.Error("Failed to list triggers", "chat_id", chatID, "error", err)
		return nil, false
	}

	for _, keyword := range keywords {
		pattern := `(?i)( |^|[^\w])` + regexp.QuoteMeta(keyword) + `( |$|[^\w])`
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if !re.MatchString(text) {
			continue
		}

		filter, err := s.repo.Get(chatID, keyword)
		if err != nil {
			slog.Error("Matched trigger has no stored filter", "chat_id", chatID, "keyword", keyword, "error", err)
			continue
		}
		return filter, true
	}

	return nil, false
}

// Dispatch renders a matched filter and issues the send for its content
// type. Known delivery failures are recovered once; anything else is logged
// and surfaced as a non-fatal notice. At most two sends happen per dispatch
// and errors never propagate to the caller.
func (s *Service) Dispatch(ctx context.Context, filter *domain.Filter, msg IncomingMessage) Outcome {
	if s.transport == nil {
		slog.Error("Dispatch without transport", "chat_id", msg.ChatID, "keyword", filter.Keyword)
		return OutcomeFailed
	}

	switch {
	case filter.Formatted != nil:
		return s.dispatchFormatted(ctx, filter, msg)
	case filter.Legacy != nil:
		return s.dispatchLegacy(ctx, filter, msg)
	}

	slog.Error("Filter has no reply variant", "chat_id", msg.ChatID, "keyword", filter.Keyword)
	return OutcomeFailed
}

func (s *Service) dispatchFormatted(ctx context.Context, filter *domain.Filter, msg IncomingMessage) Outcome {
	reply := filter.Formatted
	keyboard := markup.BuildKeyboard(reply.Buttons)
	body := s.renderBody(reply.Body, msg)

	if !reply.Type.IsMedia() {
		opts := SendOptions{ReplyTo: msg.MessageID, Keyboard: keyboard, HTML: true}
		err := s.transport.SendText(ctx, msg.ChatID, body, opts)
		return s.recoverTextSend(ctx, filter, msg, body, opts, err)
	}

	opts := SendOptions{ReplyTo: msg.MessageID, Keyboard: keyboard, HTML: true}
	if reply.Type != domain.ContentTypeSticker {
		// Stickers carry no caption
		opts.Caption = body
	}
	if err := s.sendMedia(ctx, reply.Type, msg.ChatID, reply.FileID, opts); err != nil {
		// Media delivery failures are reported, not recovered
		slog.Error("Error sending filter media", "chat_id", msg.ChatID, "keyword", filter.Keyword, "error", err)
		s.notify(ctx, msg, deliveryFailedNotice)
		return OutcomeFailed
	}

	return OutcomeDelivered
}

func (s *Service) dispatchLegacy(ctx context.Context, filter *domain.Filter, msg IncomingMessage) Outcome {
	reply := filter.Legacy
	opts := SendOptions{ReplyTo: msg.MessageID}

	var contentType domain.ContentType
	switch m := reply.Media; {
	case m.Sticker:
		contentType = domain.ContentTypeSticker
	case m.Document:
		contentType = domain.ContentTypeDocument
	case m.Photo:
		contentType = domain.ContentTypePhoto
	case m.Audio:
		contentType = domain.ContentTypeAudio
	case m.Voice:
		contentType = domain.ContentTypeVoice
	case m.Video:
		contentType = domain.ContentTypeVideo
	default:
		// No media flag set: a bare verbatim text reply
		err := s.transport.SendText(ctx, msg.ChatID, reply.Body, opts)
		return s.recoverTextSend(ctx, filter, msg, reply.Body, opts, err)
	}

	if err := s.sendMedia(ctx, contentType, msg.ChatID, reply.Body, opts); err != nil {
		slog.Error("Error sending legacy filter media", "chat_id", msg.ChatID, "keyword", filter.Keyword, "error", err)
		s.notify(ctx, msg, deliveryFailedNotice)
		return OutcomeFailed
	}

	return OutcomeDelivered
}

// recoverTextSend applies the documented fallbacks to a failed text send:
// a missing reply target retries once without the reply binding and an
// unsupported button scheme substitutes a fixed warning without buttons.
// Anything else is logged and reported, never retried.
func (s *Service) recoverTextSend(ctx context.Context, filter *domain.Filter, msg IncomingMessage, text string, opts SendOptions, err error) Outcome {
	if err == nil {
		return OutcomeDelivered
	}

	switch sharederrors.KindOf(err) {
	case sharederrors.DeliveryReplyTargetMissing:
		retry := opts
		retry.ReplyTo = 0
		if err := s.transport.SendText(ctx, msg.ChatID, text, retry); err != nil {
			slog.Error("Error in filters", "chat_id", msg.ChatID, "keyword", filter.Keyword, "error", err)
			return OutcomeFailed
		}
		return OutcomeRecovered

	case sharederrors.DeliveryUnsupportedScheme:
		warn := SendOptions{ReplyTo: opts.ReplyTo}
		if err := s.transport.SendText(ctx, msg.ChatID, unsupportedSchemeWarning, warn); err != nil {
			slog.Error("Error in filters", "chat_id", msg.ChatID, "keyword", filter.Keyword, "error", err)
			return OutcomeFailed
		}
		return OutcomeRecovered
	}

	slog.Error("Filter could not be sent", "chat_id", msg.ChatID, "keyword", filter.Keyword, "error", err)
	s.notify(ctx, msg, deliveryFailedNotice)
	return OutcomeFailed
}

func (s *Service) sendMedia(ctx context.Context, t domain.ContentType, chatID int64, fileID string, opts SendOptions) error {
	switch t {
	case domain.ContentTypeSticker:
		return s.transport.SendSticker(ctx, chatID, fileID, opts)
	case domain.ContentTypeDocument:
		return s.transport.SendDocument(ctx, chatID, fileID, opts)
	case domain.ContentTypePhoto:
		return s.transport.SendPhoto(ctx, chatID, fileID, opts)
	case domain.ContentTypeAudio:
		return s.transport.SendAudio(ctx, chatID, fileID, opts)
	case domain.ContentTypeVoice:
		return s.transport.SendVoice(ctx, chatID, fileID, opts)
	case domain.ContentTypeVideo:
		return s.transport.SendVideo(ctx, chatID, fileID, opts)
	}
	return sharederrors.ErrInvalidFilter
}

// renderBody substitutes placeholders at send time. A template whose brace
// syntax yields no recognized placeholder counts as an empty body.
func (s *Service) renderBody(template string, msg IncomingMessage) string {
	if template == "" {
		return ""
	}
	rendered, ok := markup.Render(template, msg.renderContext())
	if !ok {
		return ""
	}
	return rendered
}

// notify surfaces a non-fatal delivery problem to the chat. Best effort.
func (s *Service) notify(ctx context.Context, msg IncomingMessage, text string) {
	opts := SendOptions{ReplyTo: msg.MessageID}
	if err := s.transport.SendText(ctx, msg.ChatID, text, opts); err != nil {
		slog.Error("Failed to send delivery notice", "chat_id", msg.ChatID, "error", err)
	}
}
