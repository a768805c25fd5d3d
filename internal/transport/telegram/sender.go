package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	responderService "github.com/reshetovitsme/keyword-reply-bot/internal/modules/responder/service"
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
)

// Sender implements the responder's Transport contract over the Bot API.
// Telegram reports failures as human-readable descriptions; they are mapped
// to the closed DeliveryKind set here, at the adapter edge, so the
// dispatcher never compares error text.
type Sender struct {
	bot *bot.Bot
}

// NewSender creates a new transport sender
func NewSender(b *bot.Bot) *Sender {
	return &Sender{bot: b}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string, opts responderService.SendOptions) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if opts.HTML {
		params.ParseMode = models.ParseModeHTML
	}
	if opts.ReplyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: opts.ReplyTo}
	}
	if opts.Keyboard != nil {
		params.ReplyMarkup = opts.Keyboard
	}

	_, err := s.bot.SendMessage(ctx, params)
	return classify(err)
}

func (s *Sender) SendSticker(ctx context.Context, chatID int64, fileID string, opts responderService.SendOptions) error {
	params := &bot.SendStickerParams{
		ChatID:  chatID,
		Sticker: &models.InputFileString{Data: fileID},
	}
	if opts.ReplyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: opts.ReplyTo}
	}
	if opts.Keyboard != nil {
		params.ReplyMarkup = opts.Keyboard
	}

	_, err := s.bot.SendSticker(ctx, params)
	return classify(err)
}

func (s *Sender) SendDocument(ctx context.Context, chatID int64, fileID string, opts responderService.SendOptions) error {
	params := &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileString{Data: fileID},
	}
	applyCaptionOptions(&params.Caption, &params.ParseMode, &params.ReplyParameters, &params.ReplyMarkup, opts)

	_, err := s.bot.SendDocument(ctx, params)
	return classify(err)
}

func (s *Sender) SendPhoto(ctx context.Context, chatID int64, fileID string, opts responderService.SendOptions) error {
	params := &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: fileID},
	}
	applyCaptionOptions(&params.Caption, &params.ParseMode, &params.ReplyParameters, &params.ReplyMarkup, opts)

	_, err := s.bot.SendPhoto(ctx, params)
	return classify(err)
}

func (s *Sender) SendAudio(ctx context.Context, chatID int64, fileID string, opts responderService.SendOptions) error {
	params := &bot.SendAudioParams{
		ChatID: chatID,
		Audio:  &models.InputFileString{Data: fileID},
	}
	applyCaptionOptions(&params.Caption, &params.ParseMode, &params.ReplyParameters, &params.ReplyMarkup, opts)

	_, err := s.bot.SendAudio(ctx, params)
	return classify(err)
}

func (s *Sender) SendVoice(ctx context.Context, chatID int64, fileID string, opts responderService.SendOptions) error {
	params := &bot.SendVoiceParams{
		ChatID: chatID,
		Voice:  &models.InputFileString{Data: fileID},
	}
	applyCaptionOptions(&params.Caption, &params.ParseMode, &params.ReplyParameters, &params.ReplyMarkup, opts)

	_, err := s.bot.SendVoice(ctx, params)
	return classify(err)
}

func (s *Sender) SendVideo(ctx context.Context, chatID int64, fileID string, opts responderService.SendOptions) error {
	params := &bot.SendVideoParams{
		ChatID: chatID,
		Video:  &models.InputFileString{Data: fileID},
	}
	applyCaptionOptions(&params.Caption, &params.ParseMode, &params.ReplyParameters, &params.ReplyMarkup, opts)

	_, err := s.bot.SendVideo(ctx, params)
	return classify(err)
}

func applyCaptionOptions(caption *string, parseMode *models.ParseMode, replyParams **models.ReplyParameters, replyMarkup *models.ReplyMarkup, opts responderService.SendOptions) {
	*caption = opts.Caption
	if opts.HTML {
		*parseMode = models.ParseModeHTML
	}
	if opts.ReplyTo != 0 {
		*replyParams = &models.ReplyParameters{MessageID: opts.ReplyTo}
	}
	if opts.Keyboard != nil {
		*replyMarkup = opts.Keyboard
	}
}

// classify maps a Bot API failure description onto the delivery-error kinds
// the dispatcher recovers from.
func classify(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	kind := sharederrors.DeliveryOther
	switch {
	case strings.Contains(msg, "unsupported url protocol"),
		strings.Contains(msg, "button_url_invalid"):
		kind = sharederrors.DeliveryUnsupportedScheme
	case strings.Contains(msg, "message to be replied not found"),
		strings.Contains(msg, "reply message not found"),
		strings.Contains(msg, "message to reply not found"):
		kind = sharederrors.DeliveryReplyTargetMissing
	}

	return &sharederrors.DeliveryError{Kind: kind, Err: err}
}
