package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reshetovitsme/keyword-reply-bot/internal/modules/filter/domain"
	sharederrors "github.com/reshetovitsme/keyword-reply-bot/internal/shared/errors"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

func textFilter(chatID int64, keyword, body string) *domain.Filter {
	return &domain.Filter{
		ChatID:  chatID,
		Keyword: keyword,
		Formatted: &domain.FormattedReply{
			Type: domain.ContentTypeText,
			Body: body,
		},
	}
}

func TestFileStorageAddAndGet(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(1, "hello", "hi there"), 50))

	got, err := storage.Get(1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Keyword)
	require.NotNil(t, got.Formatted)
	assert.Equal(t, "hi there", got.Formatted.Body)
}

func TestFileStorageGetMissing(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.Get(1, "nope")
	assert.ErrorIs(t, err, sharederrors.ErrKeywordNotFound)
}

func TestFileStorageUpsertKeepsOrder(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(1, "a", "1"), 50))
	require.NoError(t, storage.Add(textFilter(1, "b", "2"), 50))
	require.NoError(t, storage.Add(textFilter(1, "c", "3"), 50))

	// Re-registering b replaces its reply without moving it
	require.NoError(t, storage.Add(textFilter(1, "b", "updated"), 50))

	keywords, err := storage.ListKeywords(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keywords)

	got, err := storage.Get(1, "b")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Formatted.Body)
}

func TestFileStorageLimit(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(1, "a", "1"), 2))
	require.NoError(t, storage.Add(textFilter(1, "b", "2"), 2))

	err := storage.Add(textFilter(1, "c", "3"), 2)
	assert.ErrorIs(t, err, sharederrors.ErrLimitExceeded)

	// Replacing an existing keyword is allowed at the cap
	require.NoError(t, storage.Add(textFilter(1, "a", "updated"), 2))

	count, err := storage.Count(1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFileStorageLimitDisabled(t *testing.T) {
	storage := newTestStorage(t)

	for _, kw := range []string{"a", "b", "c"} {
		require.NoError(t, storage.Add(textFilter(1, kw, "x"), 0))
	}

	count, err := storage.Count(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFileStorageRemove(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(1, "hello", "hi"), 50))
	require.NoError(t, storage.Remove(1, "hello"))

	_, err := storage.Get(1, "hello")
	assert.ErrorIs(t, err, sharederrors.ErrKeywordNotFound)

	assert.ErrorIs(t, storage.Remove(1, "hello"), sharederrors.ErrKeywordNotFound)
}

func TestFileStorageClear(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(1, "a", "1"), 50))
	require.NoError(t, storage.Add(textFilter(1, "b", "2"), 50))

	removed, err := storage.Clear(1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keywords, err := storage.ListKeywords(1)
	require.NoError(t, err)
	assert.Empty(t, keywords)
}

func TestFileStorageChatsAreIsolated(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(1, "hello", "chat one"), 50))
	require.NoError(t, storage.Add(textFilter(2, "hello", "chat two"), 50))

	got, err := storage.Get(2, "hello")
	require.NoError(t, err)
	assert.Equal(t, "chat two", got.Formatted.Body)

	require.NoError(t, storage.Remove(1, "hello"))
	_, err = storage.Get(2, "hello")
	assert.NoError(t, err)
}

func TestFileStorageMigrate(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Add(textFilter(100, "a", "old a"), 50))
	require.NoError(t, storage.Add(textFilter(100, "b", "old b"), 50))
	require.NoError(t, storage.Add(textFilter(-100200, "b", "existing b"), 50))

	require.NoError(t, storage.Migrate(100, -100200))

	// The old chat is emptied
	keywords, err := storage.ListKeywords(100)
	require.NoError(t, err)
	assert.Empty(t, keywords)

	// a moved over and was re-keyed; the new chat's b won the collision
	got, err := storage.Get(-100200, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(-100200), got.ChatID)

	got, err = storage.Get(-100200, "b")
	require.NoError(t, err)
	assert.Equal(t, "existing b", got.Formatted.Body)
}

func TestFileStorageTotals(t *testing.T) {
	storage := newTestStorage(t)

	numFilters, err := storage.NumFilters()
	require.NoError(t, err)
	assert.Equal(t, 0, numFilters)

	require.NoError(t, storage.Add(textFilter(1, "a", "1"), 50))
	require.NoError(t, storage.Add(textFilter(1, "b", "2"), 50))
	require.NoError(t, storage.Add(textFilter(-42, "c", "3"), 50))

	numFilters, err = storage.NumFilters()
	require.NoError(t, err)
	assert.Equal(t, 3, numFilters)

	numChats, err := storage.NumChats()
	require.NoError(t, err)
	assert.Equal(t, 2, numChats)
}

func TestFileStorageCorruptFileCarriesChatContext(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "filters", "1.json"), []byte("{not json"), 0644))

	_, err = storage.Get(1, "hello")
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, int64(1), oopsErr.Context()["chat_id"])
}

func TestFileStoragePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, first.Add(textFilter(1, "hello", "hi"), 50))

	second, err := NewFileStorage(dir)
	require.NoError(t, err)
	got, err := second.Get(1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Formatted.Body)
}
