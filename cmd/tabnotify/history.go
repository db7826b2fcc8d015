/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/history"
	"github.com/spf13/cobra"
)

type historyClient interface {
	RecentHistory(ctx context.Context, limit int) ([]history.Entry, error)
}

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(client historyClient) *cobra.Command {
	if client == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var limitFlag int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent notification outcomes",
		Long: `Show the most recent notification requests, newest first, with the tab
they marked or the reason nothing was marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limitFlag <= 0 {
				return fmt.Errorf("--limit must be a positive integer")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			entries, err := client.RecentHistory(ctx, limitFlag)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			writeHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Number of entries to show")
	return historyCmd
}

func writeHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No notifications recorded")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		target := "-"
		if e.Tier != "" && e.Reason == "" {
			target = strconv.Itoa(e.Position)
		}
		result := string(e.Reason)
		if e.Renamed {
			result = e.NewName
		}
		rows = append(rows, []string{e.Timestamp, e.Preset, e.Glyph, string(e.Tier), target, result})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "PRESET", "MARK", "TIER", "TAB", "RESULT").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

// historyCmd represents the history command
var historyCmd = NewHistoryCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(historyCmd)
}
