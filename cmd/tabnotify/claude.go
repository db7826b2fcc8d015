/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/claude"
	"github.com/cristianoliveira/tabnotify/internal/colors"
	"github.com/spf13/cobra"
)

type claudeClient interface {
	ClaudeSettingsPath() (string, error)
	InstallHooks(path, binary string) error
	UninstallHooks(path string) (bool, error)
}

// NewClaudeCmd creates the claude command group with explicit dependencies.
func NewClaudeCmd(client claudeClient) *cobra.Command {
	if client == nil {
		panic("NewClaudeCmd: client dependency cannot be nil")
	}

	var settingsFlag string

	claudeCmd := &cobra.Command{
		Use:   "claude",
		Short: "Manage Claude Code hooks",
		Long: `Manage the Claude Code hooks that run tabnotify.

Installed hooks mark the agent's tab when it needs attention or finishes:
    Notification   notify notification
    Stop           notify stop
    PostToolUse    notify posttooluse
    SubagentStop   notify subagent-stop`,
		Args: cobra.NoArgs,
	}
	claudeCmd.PersistentFlags().StringVar(&settingsFlag, "settings", "", "Claude settings file (default: ~/.claude/settings.json)")

	settingsPath := func() (string, error) {
		if settingsFlag != "" {
			return settingsFlag, nil
		}
		return client.ClaudeSettingsPath()
	}

	var binaryFlag string
	installCmd := &cobra.Command{
		Use:   "install-hooks",
		Short: "Install tabnotify hooks into Claude Code settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPath()
			if err != nil {
				return err
			}
			if err := client.InstallHooks(path, binaryFlag); err != nil {
				return fmt.Errorf("install hooks: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %d Claude Code hooks in %s\n", len(claude.Hooks), path)
			return nil
		},
	}
	installCmd.Flags().StringVar(&binaryFlag, "binary", claude.DefaultBinary, "Command the hooks run")

	uninstallCmd := &cobra.Command{
		Use:   "uninstall-hooks",
		Short: "Remove tabnotify hooks from Claude Code settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPath()
			if err != nil {
				return err
			}
			removed, err := client.UninstallHooks(path)
			if err != nil {
				return fmt.Errorf("uninstall hooks: %w", err)
			}
			if !removed {
				colors.Warning("no tabnotify hooks found in " + path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed tabnotify hooks from %s\n", path)
			return nil
		},
	}

	claudeCmd.AddCommand(installCmd, uninstallCmd)
	return claudeCmd
}

// claudeCmd represents the claude command
var claudeCmd = NewClaudeCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(claudeCmd)
}
