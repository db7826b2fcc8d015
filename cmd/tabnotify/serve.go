/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/spf13/cobra"
)

type serveClient interface {
	SocketPath() string
	DaemonRunning(ctx context.Context) bool
	Serve(ctx context.Context) error
}

// NewServeCmd creates the serve command with explicit dependencies.
func NewServeCmd(client serveClient) *cobra.Command {
	if client == nil {
		panic("NewServeCmd: client dependency cannot be nil")
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon that tracks focus and marks tabs",
		Long: `Run the tabnotify daemon in the foreground.

The daemon polls tmux for windows and panes, clears the mark of a window
when it gains focus and answers notify requests on a unix socket. It stops
on SIGINT or SIGTERM.

Start it from tmux.conf:
    run-shell -b 'tabnotify serve'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if client.DaemonRunning(ctx) {
				return fmt.Errorf("daemon already running on %s", client.SocketPath())
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := client.Serve(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	return serveCmd
}

// serveCmd represents the serve command
var serveCmd = NewServeCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(serveCmd)
}
