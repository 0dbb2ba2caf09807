package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csv-analyst/backend/internal/chat"
)

// clientAsker adapts the HTTP client to the conversation backend.
type clientAsker struct {
	ask func(ctx context.Context, query string) (string, error)
}

func (a clientAsker) Ask(ctx context.Context, query string) (string, error) {
	return a.ask(ctx, query)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session about the uploaded dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		conv := chat.NewConversation(clientAsker{ask: c.Ask})

		fmt.Println("Interactive analyst chat. Type a question, or 'exit' to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "exit" || line == "quit" {
				return nil
			}

			reply, err := conv.Submit(context.Background(), line)
			if errors.Is(err, chat.ErrEmptyQuestion) {
				continue
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, reply.Text)
				continue
			}
			fmt.Println(reply.Text)
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
