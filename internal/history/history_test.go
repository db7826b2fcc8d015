package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, j.Close())
	})
	return j
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestRecordAndRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, Entry{ID: "a", Timestamp: "2026-01-01T00:00:00Z", Command: "notify", Glyph: "✅"}))
	require.NoError(t, j.Record(ctx, Entry{
		ID:           "b",
		Timestamp:    "2026-01-02T00:00:00Z",
		Session:      "work",
		Command:      "notify",
		Preset:       "stop",
		Glyph:        "✅",
		PresetSource: notify.PresetConfigured,
		PaneID:       "%9",
		Tier:         notify.TierPane,
		Position:     1,
		OldName:      "build",
		NewName:      "build ✅",
		Renamed:      true,
	}))
	require.NoError(t, j.Record(ctx, Entry{ID: "c", Timestamp: "2026-01-03T00:00:00Z", Command: "notify",
		Tier: notify.TierPane, Reason: notify.ReasonPaneNotFound}))

	entries, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, notify.ReasonPaneNotFound, entries[0].Reason)
	assert.False(t, entries[0].Renamed)

	assert.Equal(t, Entry{
		ID:           "b",
		Timestamp:    "2026-01-02T00:00:00Z",
		Session:      "work",
		Command:      "notify",
		Preset:       "stop",
		Glyph:        "✅",
		PresetSource: notify.PresetConfigured,
		PaneID:       "%9",
		Tier:         notify.TierPane,
		Position:     1,
		OldName:      "build",
		NewName:      "build ✅",
		Renamed:      true,
	}, entries[1])

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err = j.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordValidatesAndStamps(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	err := j.Record(ctx, Entry{Command: "notify"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	require.NoError(t, j.Record(ctx, Entry{ID: "x", Command: "notify"}))
	entries, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = time.Parse(TimestampFormat, entries[0].Timestamp)
	assert.NoError(t, err)

	// Duplicate ids are rejected by the primary key.
	assert.Error(t, j.Record(ctx, Entry{ID: "x", Command: "notify"}))
}

func TestCleanup(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -40).Format(TimestampFormat)
	require.NoError(t, j.Record(ctx, Entry{ID: "old", Timestamp: old, Command: "notify"}))
	require.NoError(t, j.Record(ctx, Entry{ID: "new", Command: "notify"}))

	_, err := j.Cleanup(ctx, -1)
	require.Error(t, err)

	removed, err := j.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].ID)

	removed, err = j.Cleanup(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestFromOutcome(t *testing.T) {
	payload := "stop"
	req := notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &payload,
		Args:    map[string]string{notify.ArgPaneID: "%9", notify.ArgSessionName: "work"},
	}
	out := notify.Outcome{Tier: notify.TierPane, Position: 1, Glyph: "✅", PresetSource: notify.PresetConfigured,
		OldName: "build", NewName: "build ✅", Renamed: true}

	e := FromOutcome("id-1", req, out)
	assert.Equal(t, Entry{
		ID:           "id-1",
		Session:      "work",
		Command:      "notify",
		Preset:       "stop",
		Glyph:        "✅",
		PresetSource: notify.PresetConfigured,
		PaneID:       "%9",
		Tier:         notify.TierPane,
		Position:     1,
		OldName:      "build",
		NewName:      "build ✅",
		Renamed:      true,
	}, e)
}
