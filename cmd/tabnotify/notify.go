/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/cristianoliveira/tabnotify/internal/tmux"
	"github.com/spf13/cobra"
)

type notifyClient interface {
	InsideTmux() bool
	CurrentPane() string
	SessionOf(ctx context.Context, pane string) string
	SendNotify(ctx context.Context, req notify.Request) (notify.Outcome, error)
	NotifyOnce(ctx context.Context, req notify.Request) (notify.Outcome, error)
}

// errOutsideTmux is returned when notify has nothing to route by.
var errOutsideTmux = errors.New("not running inside tmux: pass --pane or --tab-position")

// NewNotifyCmd creates the notify command with explicit dependencies.
func NewNotifyCmd(client notifyClient) *cobra.Command {
	if client == nil {
		panic("NewNotifyCmd: client dependency cannot be nil")
	}

	var paneFlag string
	var positionFlag string
	var noDaemonFlag bool
	var verboseFlag bool

	notifyCmd := &cobra.Command{
		Use:   "notify [preset]",
		Short: "Mark the tab a notification came from",
		Long: `Mark the tmux window a notification came from with the glyph of a preset.

The window is found from the pane the command runs in ($TMUX_PANE), from
--pane, or from --tab-position (0-based). Without any of them the focused
window is marked. Unknown presets use ❓; no preset uses ✅.

The request goes to the running daemon; when none is listening it is
handled in-process, without clearing the mark of the focused window.
A daemon that fails to answer is reported as an error.

Routing misses are not errors: the command exits 0 and, with --verbose,
reports why nothing was marked.

EXAMPLES:
    tabnotify notify stop
    tabnotify notify error --pane %3
    tabnotify notify --tab-position 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			req := notify.Request{Name: notify.NotifyCommand, Args: map[string]string{}}
			if len(args) == 1 {
				preset := args[0]
				req.Payload = &preset
			}

			pane := paneFlag
			if pane == "" {
				pane = client.CurrentPane()
			}
			if pane != "" {
				req.Args[notify.ArgPaneID] = tmux.NormalizePaneID(pane)
			}
			if cmd.Flags().Changed("tab-position") {
				req.Args[notify.ArgTabPosition] = positionFlag
			}

			if !client.InsideTmux() && len(req.Args) == 0 {
				if allowTmuxlessMode() {
					logging.Debug("notify outside tmux ignored")
					return nil
				}
				return errOutsideTmux
			}
			if session := client.SessionOf(ctx, req.Args[notify.ArgPaneID]); session != "" {
				req.Args[notify.ArgSessionName] = session
			}

			out, err := deliver(ctx, client, req, noDaemonFlag)
			if err != nil {
				return fmt.Errorf("notify: %w", err)
			}
			if verboseFlag {
				printOutcome(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	notifyCmd.Flags().StringVar(&paneFlag, "pane", "", "Pane id to route by (default: $TMUX_PANE)")
	notifyCmd.Flags().StringVar(&positionFlag, "tab-position", "", "0-based window position to mark")
	notifyCmd.Flags().BoolVar(&noDaemonFlag, "no-daemon", false, "Handle the request in-process without contacting the daemon")
	notifyCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Report what was marked")
	return notifyCmd
}

// deliver sends req to the daemon and falls back to in-process handling
// only when no daemon listens. Any other failure may come after the daemon
// handled the request, so it is returned as is.
func deliver(ctx context.Context, client notifyClient, req notify.Request, skipDaemon bool) (notify.Outcome, error) {
	if !skipDaemon {
		out, err := client.SendNotify(ctx, req)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ipc.ErrNoDaemon) {
			return notify.Outcome{}, err
		}
		logging.Debug("daemon not running, handling request in-process")
	}
	return client.NotifyOnce(ctx, req)
}

func printOutcome(w io.Writer, out notify.Outcome) {
	switch {
	case out.Ignored:
		fmt.Fprintln(w, "request ignored")
	case out.Renamed:
		fmt.Fprintf(w, "marked tab %d: %s -> %s (by %s)\n", out.Position, out.OldName, out.NewName, out.Tier)
	default:
		fmt.Fprintf(w, "no tab marked: %s\n", out.Reason)
	}
}

// notifyCmd represents the notify command
var notifyCmd = NewNotifyCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(notifyCmd)
}
