package repository

import (
	"github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
)

// Repository defines the interface for trigger persistence
// This abstraction allows easy replacement of storage implementations
// (e.g., FileStorage -> PostgreSQL -> MongoDB)
type Repository interface {
	// Add upserts a filter. When the keyword is new for the chat and the
	// chat already holds limit filters, the add fails with
	// errors.ErrLimitExceeded and nothing is mutated. limit <= 0 disables
	// the cap. The count check and the write happen under one lock.
	Add(filter *domain.Filter, limit int) error
	Get(chatID int64, keyword string) (*domain.Filter, error)
	Remove(chatID int64, keyword string) error
	// ListKeywords returns the chat's keywords in registration order;
	// matching relies on this order being stable.
	ListKeywords(chatID int64) ([]string, error)
	Count(chatID int64) (int, error)
	// Clear removes every filter of the chat and reports how many.
	Clear(chatID int64) (int, error)
	// Migrate re-keys all of oldChatID's filters under newChatID.
	Migrate(oldChatID, newChatID int64) error
	NumFilters() (int, error)
	NumChats() (int, error)
}
