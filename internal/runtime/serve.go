package runtime

import (
	"context"
	"errors"

	"github.com/cristianoliveira/tabnotify/internal/ipc"
)

// Serve runs a Runtime and answers socket requests on socketPath until ctx
// is cancelled or either side fails. The socket file is removed on return.
func Serve(ctx context.Context, opts Options, socketPath string) error {
	rt := New(opts)
	srv := ipc.NewServer(socketPath, opts.Logger)
	rt.Register(srv)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- rt.Run(ctx) }()
	go func() { errCh <- srv.Serve(ctx) }()

	first := <-errCh
	cancel()
	second := <-errCh
	return errors.Join(first, second)
}
