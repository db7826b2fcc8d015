/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/version"
	"github.com/spf13/cobra"
)

type versionClient interface {
	BuildInfo() version.Info
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	var verboseFlag bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show the tabnotify version. With --verbose, also show the commit, the Go
version and the platform the binary was built for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := client.BuildInfo()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tabnotify version %s\n", info)
			if verboseFlag {
				fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
				fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
				fmt.Fprintf(w, "  platform: %s\n", info.Platform)
			}
			return nil
		},
	}

	versionCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show build details")
	return versionCmd
}

// versionCmd represents the version command
var versionCmd = NewVersionCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(versionCmd)
}
