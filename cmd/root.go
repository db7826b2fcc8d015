/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/tabnotify/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "tabnotify",
	Short:         "Mark the tmux window a notification came from.",
	Long:          `Mark the tmux window a notification came from, and clear the mark when you look at it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Subcommands register themselves on RootCmd
// from their init functions.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			if cmd.Long != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", cmd.Long)
			}
			return
		}
		printHelpText(cmd)
	})
}

// commandOrder is the order commands are listed in the help text.
var commandOrder = []string{
	"notify",
	"serve",
	"status",
	"history",
	"monitor",
	"claude",
	"config",
	"version",
}

func printHelpText(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), HelpText(cmd))
}

// HelpText renders the root help for cmd's subcommands.
func HelpText(cmd *cobra.Command) string {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Name(), found.Short))
	}

	return fmt.Sprintf(`tabnotify v%s

Mark the tmux window a notification came from.

USAGE:
    tabnotify [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
}
