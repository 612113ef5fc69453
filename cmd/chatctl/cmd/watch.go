package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfrund/livechat/internal/client"
	"github.com/nfrund/livechat/internal/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the history, then stream new messages",
	Long: `Print every message, then keep the connection open and print each new message
as it is sent. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, newClient(), cmd.OutOrStdout())
	},
}

func runWatch(ctx context.Context, c *client.Client, out io.Writer) error {
	feed := client.NewFeed(c)
	if err := feed.Load(ctx); err != nil {
		return err
	}

	for _, msg := range feed.Messages() {
		printLine(out, msg)
	}
	fmt.Fprintln(out, idStyle.Sprint("-- watching for new messages --"))

	feed.OnChange(func(messages []domain.Message) {
		printLine(out, messages[0])
	})
	return feed.Run(ctx)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
