package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0" // set at build time with -ldflags "-X github.com/nfrund/livechat/cmd/chatctl/cmd.version=..."

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chatctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chatctl v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
