package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	filterRepo "github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/repository"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/config"
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
	"github.com/reshetovitsme/keyword-reply-bot/internal/shared/markup"
	"github.com/samber/oops"
)

// Service handles filter administration: add, remove, list, clear, plus the
// stats/export/migrate hooks.
type Service struct {
	cfg  *config.Config
	repo filterRepo.Repository
}

// New creates a new filter admin service
func New(cfg *config.Config, repo filterRepo.Repository) *Service {
	return &Service{
		cfg:  cfg,
		repo: repo,
	}
}

// Add validates and upserts a filter. Keywords are lowercased so the same
// trigger in different cases replaces rather than duplicates. A chat at the
// filter cap rejects new keywords with ErrLimitExceeded; replacing an
// existing keyword is always allowed.
func (s *Service) Add(filter *domain.Filter) error {
	filter.Keyword = strings.ToLower(strings.TrimSpace(filter.Keyword))

	if err := filter.Validate(); err != nil {
		return oops.With("chat_id", filter.ChatID, "keyword", filter.Keyword).Wrap(err)
	}

	// A text reply of buttons alone is invalid: the body must survive
	// placeholder stripping and trimming
	if f := filter.Formatted; f != nil && !f.Type.IsMedia() {
		if strings.TrimSpace(markup.StripPlaceholders(f.Body)) == "" {
			return sharederrors.ErrEmptyResponse
		}
	}

	if err := s.repo.Add(filter, s.cfg.FilterLimit); err != nil {
		return oops.With("chat_id", filter.ChatID, "keyword", filter.Keyword).Wrap(err)
	}

	slog.Info("Filter saved", "chat_id", filter.ChatID, "keyword", filter.Keyword)
	return nil
}

// Remove deletes one trigger; absent keywords report ErrKeywordNotFound.
func (s *Service) Remove(chatID int64, keyword string) error {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	return s.repo.Remove(chatID, keyword)
}

// Get returns the stored filter for a keyword.
func (s *Service) Get(chatID int64, keyword string) (*domain.Filter, error) {
	return s.repo.Get(chatID, strings.ToLower(keyword))
}

// List returns the chat's trigger keywords in store order. Chunking for
// message-size limits is the caller's concern.
func (s *Service) List(chatID int64) ([]string, error) {
	return s.repo.ListKeywords(chatID)
}

// Clear removes every filter of a chat and reports the count removed.
// Owner-only gating is enforced by the transport layer.
func (s *Service) Clear(chatID int64) (int, error) {
	count, err := s.repo.Clear(chatID)
	if err != nil {
		return 0, oops.With("chat_id", chatID).Wrap(err)
	}

	slog.Info("Filters cleared", "chat_id", chatID, "count", count)
	return count, nil
}

// Migrate re-keys a chat's triggers after a chat id change (e.g. a group
// upgraded to a supergroup).
func (s *Service) Migrate(oldChatID, newChatID int64) error {
	if err := s.repo.Migrate(oldChatID, newChatID); err != nil {
		return oops.With("old_chat_id", oldChatID, "new_chat_id", newChatID).Wrap(err)
	}

	slog.Info("Filters migrated", "old_chat_id", oldChatID, "new_chat_id", newChatID)
	return nil
}

// Import registers plain-text filters from a backup keyword->body map.
func (s *Service) Import(chatID int64, triggers map[string]string) int {
	imported := 0
	for keyword, body := range triggers {
		filter := &domain.Filter{
			ChatID:  chatID,
			Keyword: keyword,
			Formatted: &domain.FormattedReply{
				Type: domain.ContentTypeText,
				Body: body,
			},
		}
		if err := s.Add(filter); err != nil {
			slog.Warn("Skipping filter on import", "chat_id", chatID, "keyword", keyword, "error", err)
			continue
		}
		imported++
	}
	return imported
}

// Stats reports the totals across all chats.
func (s *Service) Stats() (string, error) {
	filters, err := s.repo.NumFilters()
	if err != nil {
		return "", oops.With("context", "counting filters").Wrap(err)
	}
	chats, err := s.repo.NumChats()
	if err != nil {
		return "", oops.With("context", "counting chats").Wrap(err)
	}

	return fmt.Sprintf("%d filters across %d chats.", filters, chats), nil
}
