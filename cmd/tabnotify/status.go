/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/spf13/cobra"
)

type statusClient interface {
	ConfigPath() string
	SocketPath() string
	DaemonStatus(ctx context.Context) (*ipc.Status, error)
	Presets() notify.PresetTable
	HooksInstalled() bool
	InsideTmux() bool
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and daemon status",
		Long: `Show the config file in use, whether the daemon is running, whether the
Claude Code hooks are installed and the available presets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := client.DaemonStatus(ctx)
			writeStatus(cmd.OutOrStdout(), client, st, err)
			return nil
		},
	}

	return statusCmd
}

func writeStatus(w io.Writer, client statusClient, st *ipc.Status, daemonErr error) {
	fmt.Fprintf(w, "Config:        %s\n", client.ConfigPath())
	fmt.Fprintf(w, "Socket:        %s\n", client.SocketPath())

	switch {
	case errors.Is(daemonErr, ipc.ErrNoDaemon):
		fmt.Fprintln(w, "Daemon:        not running")
	case daemonErr != nil:
		fmt.Fprintf(w, "Daemon:        error: %v\n", daemonErr)
	case st != nil:
		fmt.Fprintf(w, "Daemon:        running (pid %d, %d tabs, %d handled)\n", st.PID, len(st.Tabs), st.Handled)
		if st.Session != "" {
			fmt.Fprintf(w, "Session:       %s\n", st.Session)
		}
		if len(st.Sessions) > 1 {
			fmt.Fprintf(w, "Sessions:      %s\n", strings.Join(st.Sessions, ", "))
		}
		if st.HasFocus {
			for _, t := range st.Tabs {
				if t.Position == st.Focused {
					fmt.Fprintf(w, "Focused tab:   %d %s\n", t.Position, t.Name)
					break
				}
			}
		}
		if st.PollError != "" {
			fmt.Fprintf(w, "Poll error:    %s\n", st.PollError)
		}
	}

	fmt.Fprintf(w, "Inside tmux:   %s\n", yesNo(client.InsideTmux()))
	hooks := "not installed"
	if client.HooksInstalled() {
		hooks = "installed"
	}
	fmt.Fprintf(w, "Claude hooks:  %s\n", hooks)

	presets := client.Presets()
	fmt.Fprintf(w, "Presets (%d):\n", len(presets))
	for _, key := range presets.Keys() {
		fmt.Fprintf(w, "    %-16s %s\n", key, presets[key])
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// statusCmd represents the status command
var statusCmd = NewStatusCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(statusCmd)
}
