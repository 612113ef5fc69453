package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nfrund/livechat/internal/client"
	"github.com/nfrund/livechat/internal/storage"
)

var listOutputPath string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all messages",
	Long: `List every message stored on the server, oldest first.

Examples:
  chatctl list
  chatctl list --output chat.json   # also export the messages as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), newClient(), cmd.OutOrStdout(), storage.NewOSStore(), listOutputPath)
	},
}

func runList(ctx context.Context, c *client.Client, out io.Writer, store storage.Store, outputPath string) error {
	msgs, err := c.AllMessages(ctx)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		fmt.Fprintln(out, "No messages yet")
	} else {
		printTable(out, msgs)
	}

	if outputPath == "" {
		return nil
	}
	n, err := storage.SaveTranscript(ctx, store, outputPath, storage.Transcript{Endpoint: c.Endpoint(), Messages: msgs})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d messages to %s (%d bytes)\n", len(msgs), outputPath, n)
	return nil
}

func init() {
	listCmd.Flags().StringVarP(&listOutputPath, "output", "o", "", "Write the messages as JSON to this file")
	rootCmd.AddCommand(listCmd)
}
