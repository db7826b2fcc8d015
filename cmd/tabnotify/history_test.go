package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cristianoliveira/tabnotify/internal/history"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryClient struct {
	entries []history.Entry
	err     error
	limit   int
}

func (f *fakeHistoryClient) RecentHistory(_ context.Context, limit int) ([]history.Entry, error) {
	f.limit = limit
	return f.entries, f.err
}

func runHistory(t *testing.T, client historyClient, args ...string) (string, error) {
	t.Helper()
	c := NewHistoryCmd(client)
	out := &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(append([]string{}, args...))
	err := c.Execute()
	return out.String(), err
}

func TestNewHistoryCmdPanicsWhenClientIsNil(t *testing.T) {
	assert.Panics(t, func() { NewHistoryCmd(nil) })
}

func TestHistoryTable(t *testing.T) {
	client := &fakeHistoryClient{entries: []history.Entry{
		{
			Timestamp: "2026-10-18T09:30:00Z", Preset: "stop", Glyph: "✅",
			Tier: notify.TierPane, Position: 2, NewName: "build ✅", Renamed: true,
		},
		{
			Timestamp: "2026-10-18T09:29:00Z", Preset: "error", Glyph: "❌",
			Tier: notify.TierPane, Reason: notify.ReasonPaneNotFound,
		},
	}}

	out, err := runHistory(t, client, "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, client.limit)
	for _, want := range []string{"TIME", "RESULT", "2026-10-18T09:30:00Z", "build ✅", "pane-not-found", "stop", "error"} {
		assert.Contains(t, out, want)
	}
}

func TestHistoryEmpty(t *testing.T) {
	client := &fakeHistoryClient{}
	out, err := runHistory(t, client)
	require.NoError(t, err)
	assert.Equal(t, 20, client.limit)
	assert.Equal(t, "No notifications recorded\n", out)
}

func TestHistoryErrors(t *testing.T) {
	_, err := runHistory(t, &fakeHistoryClient{}, "--limit", "0")
	assert.ErrorContains(t, err, "--limit must be a positive integer")

	_, err = runHistory(t, &fakeHistoryClient{err: errors.New("history is disabled")})
	assert.ErrorContains(t, err, "read history: history is disabled")
}
