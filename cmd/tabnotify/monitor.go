/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"time"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/tui"
	"github.com/spf13/cobra"
)

type monitorClient interface {
	RunMonitor(interval time.Duration, limit int) error
}

// NewMonitorCmd creates the monitor command with explicit dependencies.
func NewMonitorCmd(client monitorClient) *cobra.Command {
	if client == nil {
		panic("NewMonitorCmd: client dependency cannot be nil")
	}

	var intervalFlag time.Duration
	var limitFlag int

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch tabs and notifications live",
		Long: `Open a terminal view of the daemon's tabs, the focused tab and the most
recent notification outcomes. Refreshes every --interval.

KEYS:
    q, esc, ctrl+c   Quit
    r                Refresh now
    tab              Switch between tables
    ↑/↓              Scroll`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if intervalFlag <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
			if limitFlag <= 0 {
				return fmt.Errorf("--limit must be a positive integer")
			}
			return client.RunMonitor(intervalFlag, limitFlag)
		},
	}

	monitorCmd.Flags().DurationVar(&intervalFlag, "interval", tui.DefaultInterval, "Refresh interval")
	monitorCmd.Flags().IntVarP(&limitFlag, "limit", "n", tui.DefaultLimit, "Number of history rows")
	return monitorCmd
}

// monitorCmd represents the monitor command
var monitorCmd = NewMonitorCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(monitorCmd)
}
