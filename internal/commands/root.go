// Package commands provides the chatrelay CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultURL = "http://localhost:8090"

var (
	// Version is set at build time.
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "Minimal web chat relay in front of an AI completion provider",
	Long: `chatrelay serves a browser chat page and a JSON relay endpoint that forwards
the whole conversation to the configured AI provider.

Examples:
  chatrelay                               Start the server (same as serve)
  chatrelay serve                         Start the server
  chatrelay chat --url http://host:8090   Chat from the terminal
  chatrelay probe --url http://host:8090  Print the relay descriptor`,
	Version:      Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(probeCmd)
}
