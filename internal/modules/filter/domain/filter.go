package domain

import (
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
)

// Filter binds a trigger keyword to a stored reply within one chat.
// Exactly one of Formatted or Legacy is set; dispatch selects the rendering
// path by which variant is present.
type Filter struct {
	ChatID    int64           `json:"chat_id"`
	Keyword   string          `json:"keyword"`
	Formatted *FormattedReply `json:"formatted,omitempty"`
	Legacy    *LegacyReply    `json:"legacy,omitempty"`
}

// FormattedReply is the current representation: HTML body with placeholder
// templates and optional inline buttons. Media replies keep the caption
// template in Body and the Telegram file reference in FileID.
type FormattedReply struct {
	Type    ContentType `json:"type"`
	Body    string      `json:"body,omitempty"`
	FileID  string      `json:"file_id,omitempty"`
	Buttons []Button    `json:"buttons,omitempty"`
}

// LegacyReply predates the formatted representation. The body is sent
// verbatim with no placeholder or button processing, keyed on the media
// flags; with no flag set it goes out as a bare text reply.
type LegacyReply struct {
	Body  string     `json:"body"`
	Media MediaFlags `json:"media"`
}

type MediaFlags struct {
	Sticker  bool `json:"sticker,omitempty"`
	Document bool `json:"document,omitempty"`
	Photo    bool `json:"photo,omitempty"`
	Audio    bool `json:"audio,omitempty"`
	Voice    bool `json:"voice,omitempty"`
	Video    bool `json:"video,omitempty"`
}

// Button is one inline keyboard button. SameRow buttons attach to the
// previous keyboard row; all others start a new row.
type Button struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	SameRow bool   `json:"same_row,omitempty"`
}

// IsMedia reports whether the content type carries a file reference
// rather than inline text.
func (t ContentType) IsMedia() bool {
	switch t {
	case ContentTypeText, ContentTypeButtonText:
		return false
	default:
		return true
	}
}

// Validate checks the structural invariants of a filter record.
func (f *Filter) Validate() error {
	if f.Keyword == "" {
		return sharederrors.ErrInvalidFilter
	}
	if (f.Formatted == nil) == (f.Legacy == nil) {
		return sharederrors.ErrInvalidFilter
	}
	if f.Formatted != nil {
		if !f.Formatted.Type.IsValid() {
			return sharederrors.ErrInvalidFilter
		}
		if f.Formatted.Type.IsMedia() && f.Formatted.FileID == "" {
			return sharederrors.ErrInvalidFilter
		}
	}
	return nil
}
