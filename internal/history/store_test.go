package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(storage.NewMemoryStorage())
}

func record(id, fileName string) domain.Record {
	return domain.Record{ID: id, FileName: fileName, Text: "transcript for " + id}
}

func TestAppendPrependsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(record("a", "first.mp3")))
	require.NoError(t, store.Append(record("b", "second.mp3")))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestAppendIgnoresDuplicateID(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(record("a", "first.mp3")))
	require.NoError(t, store.Append(record("a", "renamed.mp3")))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "first.mp3", records[0].FileName)
}

func TestAppendEvictsBeyondCap(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < MaxRecords+5; i++ {
		require.NoError(t, store.Append(record(fmt.Sprintf("id-%d", i), "f.mp3")))
	}

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, MaxRecords)
	assert.Equal(t, fmt.Sprintf("id-%d", MaxRecords+4), records[0].ID, "newest record survives")
	assert.Equal(t, "id-5", records[len(records)-1].ID, "oldest records evicted")
}

func TestListEmptyHistory(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGet(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(record("a", "first.mp3")))

	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "first.mp3", got.FileName)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRename(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(record("a", "first.mp3")))

	require.NoError(t, store.Rename("a", "better-name.mp3"))
	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "better-name.mp3", got.FileName)

	assert.Error(t, store.Rename("a", "   "))
	assert.ErrorIs(t, store.Rename("missing", "x.mp3"), ErrNotFound)
}

func TestMarkDownloaded(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(record("a", "first.mp3")))

	require.NoError(t, store.MarkDownloaded("a"))
	got, err := store.Get("a")
	require.NoError(t, err)
	assert.True(t, got.Downloaded)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(record("a", "first.mp3")))
	require.NoError(t, store.Append(record("b", "second.mp3")))

	require.NoError(t, store.Remove("a"))
	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)

	require.NoError(t, store.Remove("missing"), "removing an absent id is a no-op")
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(record("a", "first.mp3")))

	require.NoError(t, store.Clear())
	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRoundTripPreservesFields(t *testing.T) {
	store := newTestStore(t)
	full := domain.Record{
		ID:          "a",
		FileName:    "call.mp4",
		Duration:    "2:05",
		Language:    "English",
		Text:        "full transcript",
		CreatedAt:   "3/4/2025, 3:04:05 PM",
		WordCount:   2,
		CharCount:   15,
		PainSummary: "pain",
		GainSummary: "gain",
		Target:      domain.TargetEnglish,
		Segments:    []domain.Segment{{Timestamp: "[00:00:00]", Speaker: "Speaker 1", Text: "hi", EndSeconds: 3}},
	}
	require.NoError(t, store.Append(full))

	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, full, got)
}

func TestCorruptCollectionSurfacesError(t *testing.T) {
	backend := storage.NewMemoryStorage()
	require.NoError(t, backend.Set(Key, "{not json"))

	_, err := NewStore(backend).List()
	assert.Error(t, err)
}
