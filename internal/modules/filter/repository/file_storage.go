package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage persists each chat's filters as one ordered JSON file.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

func NewFileStorage(basePath string) (*FileStorage, error) {
	dir := filepath.Join(basePath, "filters")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create filters directory").Wrap(err)
	}

	return &FileStorage{basePath: basePath}, nil
}

func (s *FileStorage) chatPath(chatID int64) string {
	return filepath.Join(s.basePath, "filters", fmt.Sprintf("%d.json", chatID))
}

// loadChat reads a chat's filter list. A missing file is an empty list.
// Callers hold the lock.
func (s *FileStorage) loadChat(chatID int64) ([]*domain.Filter, error) {
	data, err := os.ReadFile(s.chatPath(chatID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oops.With("chat_id", chatID, "context", "failed to read filters").Wrap(err)
	}

	var filters []*domain.Filter
	if err := json.Unmarshal(data, &filters); err != nil {
		return nil, oops.With("chat_id", chatID, "context", "failed to unmarshal filters").Wrap(err)
	}

	return filters, nil
}

func (s *FileStorage) saveChat(chatID int64, filters []*domain.Filter) error {
	if len(filters) == 0 {
		err := os.Remove(s.chatPath(chatID))
		if err != nil && !os.IsNotExist(err) {
			return oops.With("chat_id", chatID, "context", "failed to remove filters file").Wrap(err)
		}
		return nil
	}

	data, err := json.MarshalIndent(filters, "", "  ")
	if err != nil {
		return oops.With("chat_id", chatID, "context", "failed to marshal filters").Wrap(err)
	}

	return os.WriteFile(s.chatPath(chatID), data, 0644)
}

func (s *FileStorage) Add(filter *domain.Filter, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters, err := s.loadChat(filter.ChatID)
	if err != nil {
		return err
	}

	_, idx, found := lo.FindIndexOf(filters, func(f *domain.Filter) bool {
		return f.Keyword == filter.Keyword
	})
	if found {
		// Replacement keeps the keyword's position in store order
		filters[idx] = filter
	} else {
		if limit > 0 && len(filters) >= limit {
			return sharederrors.ErrLimitExceeded
		}
		filters = append(filters, filter)
	}

	return s.saveChat(filter.ChatID, filters)
}

func (s *FileStorage) Get(chatID int64, keyword string) (*domain.Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters, err := s.loadChat(chatID)
	if err != nil {
		return nil, err
	}

	filter, found := lo.Find(filters, func(f *domain.Filter) bool {
		return f.Keyword == keyword
	})
	if !found {
		return nil, sharederrors.ErrKeywordNotFound
	}

	return filter, nil
}

func (s *FileStorage) Remove(chatID int64, keyword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters, err := s.loadChat(chatID)
	if err != nil {
		return err
	}

	kept := lo.Filter(filters, func(f *domain.Filter, _ int) bool {
		return f.Keyword != keyword
	})
	if len(kept) == len(filters) {
		return sharederrors.ErrKeywordNotFound
	}

	return s.saveChat(chatID, kept)
}

func (s *FileStorage) ListKeywords(chatID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters, err := s.loadChat(chatID)
	if err != nil {
		return nil, err
	}

	return lo.Map(filters, func(f *domain.Filter, _ int) string {
		return f.Keyword
	}), nil
}

func (s *FileStorage) Count(chatID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters, err := s.loadChat(chatID)
	if err != nil {
		return 0, err
	}

	return len(filters), nil
}

func (s *FileStorage) Clear(chatID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters, err := s.loadChat(chatID)
	if err != nil {
		return 0, err
	}

	if err := s.saveChat(chatID, nil); err != nil {
		return 0, err
	}

	return len(filters), nil
}

func (s *FileStorage) Migrate(oldChatID, newChatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.loadChat(oldChatID)
	if err != nil {
		return err
	}
	if len(old) == 0 {
		return nil
	}

	current, err := s.loadChat(newChatID)
	if err != nil {
		return err
	}

	for _, f := range old {
		if lo.SomeBy(current, func(c *domain.Filter) bool { return c.Keyword == f.Keyword }) {
			continue
		}
		f.ChatID = newChatID
		current = append(current, f)
	}

	if err := s.saveChat(newChatID, current); err != nil {
		return err
	}

	return s.saveChat(oldChatID, nil)
}

func (s *FileStorage) NumFilters() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats, err := s.chatIDs()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, chatID := range chats {
		filters, err := s.loadChat(chatID)
		if err != nil {
			continue
		}
		total += len(filters)
	}

	return total, nil
}

func (s *FileStorage) NumChats() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats, err := s.chatIDs()
	if err != nil {
		return 0, err
	}

	return len(chats), nil
}

// chatIDs lists every chat with at least one stored filter. Callers hold
// the lock.
func (s *FileStorage) chatIDs() ([]int64, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, "filters"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oops.With("directory", filepath.Join(s.basePath, "filters"), "context", "failed to read filters directory").Wrap(err)
	}

	return lo.FilterMap(entries, func(entry os.DirEntry, _ int) (int64, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return 0, false
		}
		var chatID int64
		if _, err := fmt.Sscanf(entry.Name(), "%d.json", &chatID); err != nil {
			return 0, false
		}
		return chatID, true
	}), nil
}
