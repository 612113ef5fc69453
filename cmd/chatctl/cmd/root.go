package cmd

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/nfrund/livechat/internal/client"
	"github.com/nfrund/livechat/internal/logging"
)

var (
	endpoint string
	noColor  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Command-line client for livechat",
	Long: `chatctl talks to a livechat server over GraphQL.

Available commands:
  list     Print every message, optionally exporting them to a JSON file
  send     Post a message
  watch    Print the history, then stream new messages as they arrive
  version  Print the chatctl version

Use "chatctl [command] --help" for more information about a specific command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		color.Enable = !noColor
		logging.NewWithWriter(os.Stderr, "text", logLevel)
	},
}

// Execute runs the root command and reports failures as "Error: <message>".
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.New(endpoint)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", envOr("LIVECHAT_ENDPOINT", "http://localhost:8080/graphql"), "GraphQL endpoint of the livechat server")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
