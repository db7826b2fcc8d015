package ipc

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultDialTimeout bounds a Dial whose context has no deadline.
const DefaultDialTimeout = 2 * time.Second

// Dial sends req to the daemon at socketPath and returns its response.
// A failure response is returned together with an error carrying its
// message.
func Dial(ctx context.Context, socketPath string, req Request) (Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return Response{}, fmt.Errorf("%w: dial %s: %v", ErrNoDaemon, socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := newEncoder(conn).Encode(req); err != nil {
		return Response{}, fmt.Errorf("send %s request: %w", req.Action, err)
	}

	var resp Response
	if err := newDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("read %s response: %w", req.Action, err)
	}
	if !resp.OK {
		return resp, fmt.Errorf("%s: %s", req.Action, resp.Error)
	}
	return resp, nil
}

// Ping reports whether a daemon answers on socketPath.
func Ping(ctx context.Context, socketPath string) bool {
	_, err := Dial(ctx, socketPath, Request{Action: ActionPing})
	return err == nil
}
