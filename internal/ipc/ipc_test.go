package ipc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// socketPath returns a short path: unix socket paths are length limited.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tnipc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "d.sock")
}

func serve(t *testing.T, srv *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	// Any answer, even a failure response, means the listener is up.
	require.Eventually(t, func() bool {
		_, err := Dial(context.Background(), srv.socketPath, Request{Action: "ready"})
		return !errors.Is(err, ErrNoDaemon)
	}, 2*time.Second, 10*time.Millisecond)

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
}

func TestDialRoundTrip(t *testing.T) {
	path := socketPath(t)
	srv := NewServer(path, nil)

	received := make(chan Request, 1)
	srv.Handle(ActionNotify, func(_ context.Context, req Request) (Response, error) {
		received <- req
		return Response{Outcome: NewOutcome(notify.Outcome{
			Tier: notify.TierPane, Position: 1, Glyph: "✅", NewName: "build ✅", Renamed: true,
		})}, nil
	})
	serve(t, srv)

	payload := "stop"
	resp, err := Dial(context.Background(), path, NewNotifyRequest(notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &payload,
		Args:    map[string]string{notify.ArgPaneID: "%9"},
	}))
	require.NoError(t, err)
	assert.True(t, resp.OK)
	require.NotNil(t, resp.Outcome)

	out := resp.Outcome.Notify()
	assert.Equal(t, notify.TierPane, out.Tier)
	assert.Equal(t, 1, out.Position)
	assert.Equal(t, "build ✅", out.NewName)
	assert.True(t, out.Renamed)

	req := (<-received).NotifyRequest()
	assert.Equal(t, notify.NotifyCommand, req.Name)
	require.NotNil(t, req.Payload)
	assert.Equal(t, "stop", *req.Payload)
	assert.Equal(t, "%9", req.Args[notify.ArgPaneID])
}

func TestDialFailureResponses(t *testing.T) {
	path := socketPath(t)
	srv := NewServer(path, nil)
	srv.Handle(ActionStatus, func(context.Context, Request) (Response, error) {
		return Response{}, errors.New("runtime stopped")
	})
	serve(t, srv)

	resp, err := Dial(context.Background(), path, Request{Action: ActionStatus})
	require.Error(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "runtime stopped", resp.Error)

	_, err = Dial(context.Background(), path, Request{Action: "bogus"})
	assert.ErrorContains(t, err, `unknown action "bogus"`)

	_, err = Dial(context.Background(), path, Request{})
	assert.ErrorContains(t, err, "missing required field")
}

func TestPing(t *testing.T) {
	path := socketPath(t)
	assert.False(t, Ping(context.Background(), path))

	srv := NewServer(path, nil)
	srv.Handle(ActionPing, func(context.Context, Request) (Response, error) { return Response{}, nil })
	serve(t, srv)
	assert.True(t, Ping(context.Background(), path))
}

func TestDialWithoutDaemon(t *testing.T) {
	_, err := Dial(context.Background(), socketPath(t), Request{Action: ActionPing})
	assert.ErrorIs(t, err, ErrNoDaemon)
}

func TestServeReplacesStaleSocket(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	srv := NewServer(path, nil)
	srv.Handle(ActionPing, func(context.Context, Request) (Response, error) { return Response{}, nil })
	serve(t, srv)
	assert.True(t, Ping(context.Background(), path))
}

func TestServeRemovesSocketOnExit(t *testing.T) {
	path := socketPath(t)
	srv := NewServer(path, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	require.Eventually(t, func() bool {
		_, err := Dial(context.Background(), path, Request{Action: "ready"})
		return !errors.Is(err, ErrNoDaemon)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestHandlePanicsOnDuplicate(t *testing.T) {
	srv := NewServer(socketPath(t), nil)
	srv.Handle(ActionPing, func(context.Context, Request) (Response, error) { return Response{}, nil })
	assert.Panics(t, func() {
		srv.Handle(ActionPing, func(context.Context, Request) (Response, error) { return Response{}, nil })
	})
}

func TestNotifyRequestDefaultsArgs(t *testing.T) {
	req := Request{Action: ActionNotify, Name: "notify"}.NotifyRequest()
	assert.NotNil(t, req.Args)
	assert.Nil(t, req.Payload)
}
