package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/livechat/internal/client"
)

var sendAuthor string

var sendCmd = &cobra.Command{
	Use:   "send [text...]",
	Short: "Post a message",
	Long: `Post a message. Words are joined with spaces; an empty message is not sent.

Examples:
  chatctl send --author Alice hello there
  chatctl send "no author shows up as Anonymous"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSend(cmd.Context(), newClient(), cmd.OutOrStdout(), sendAuthor, strings.Join(args, " "))
	},
}

func runSend(ctx context.Context, c *client.Client, out io.Writer, author, text string) error {
	msg, err := c.SendMessage(ctx, author, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Sent message #%d\n", msg.ID)
	return nil
}

func init() {
	sendCmd.Flags().StringVarP(&sendAuthor, "author", "a", "", "Author name (empty shows as Anonymous)")
	rootCmd.AddCommand(sendCmd)
}
