// Package tui implements the tabnotify monitor: a live view of the daemon's
// tabs and of the most recent notification outcomes.
package tui

import (
	"context"
	"errors"

	"github.com/cristianoliveira/tabnotify/internal/history"
	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/notify"
)

// Source provides the data shown by the monitor.
type Source interface {
	// Status returns the running daemon's state.
	Status(ctx context.Context) (*ipc.Status, error)
	// Recent returns the newest history entries, newest first.
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// RecentReader is the part of the history journal the monitor reads.
type RecentReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// DaemonSource reads status from the daemon socket and history from the
// journal. Session selects whose tabs the daemon reports; empty means the
// daemon's default session. A nil Journal yields no history.
type DaemonSource struct {
	SocketPath string
	Session    string
	Journal    RecentReader
}

// Status asks the daemon for its status.
func (s DaemonSource) Status(ctx context.Context) (*ipc.Status, error) {
	req := ipc.Request{Action: ipc.ActionStatus}
	if s.Session != "" {
		req.Args = map[string]string{notify.ArgSessionName: s.Session}
	}
	resp, err := ipc.Dial(ctx, s.SocketPath, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == nil {
		return nil, errors.New("daemon returned no status")
	}
	return resp.Status, nil
}

// Recent reads the journal.
func (s DaemonSource) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.Journal == nil {
		return nil, nil
	}
	return s.Journal.Recent(ctx, limit)
}
