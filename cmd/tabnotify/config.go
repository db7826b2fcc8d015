/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/spf13/cobra"
)

type configClient interface {
	ConfigPath() string
	SampleConfig() ([]byte, error)
}

// tmuxSnippet starts the daemon with the tmux server.
const tmuxSnippet = `# tmux.conf: start the tabnotify daemon with the server
run-shell -b 'tabnotify serve'
`

// NewConfigCmd creates the config command with explicit dependencies.
func NewConfigCmd(client configClient) *cobra.Command {
	if client == nil {
		panic("NewConfigCmd: client dependency cannot be nil")
	}

	var pathFlag bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print a sample configuration",
		Long: `Print a sample config.toml holding every default and the default
presets, followed by the tmux.conf line that starts the daemon.

Values in the file are overridden by TABNOTIFY_<KEY> environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if pathFlag {
				fmt.Fprintln(w, client.ConfigPath())
				return nil
			}

			sample, err := client.SampleConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "# %s\n", client.ConfigPath())
			fmt.Fprintf(w, "%s\n", sample)
			fmt.Fprint(w, tmuxSnippet)
			return nil
		},
	}

	configCmd.Flags().BoolVar(&pathFlag, "path", false, "Print only the config file path")
	return configCmd
}

// configCmd represents the config command
var configCmd = NewConfigCmd(appClient)

func init() {
	cmd.RootCmd.AddCommand(configCmd)
}
