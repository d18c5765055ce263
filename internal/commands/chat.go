package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chatrelay/internal/client"
	"chatrelay/internal/render"
)

var (
	chatURLFlag   string
	chatStyleFlag string
	chatWidthFlag int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session against a running relay",
	Long: `Start an interactive chat session against a running chatrelay server.

The whole conversation is sent with every message.
Type /clear to start over and /quit (or Ctrl+D) to end the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := render.New(render.Options{Width: chatWidthFlag, Style: chatStyleFlag})
		if err != nil {
			return err
		}
		conv := client.NewConversation(client.NewHTTPRelay(chatURLFlag, nil))
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runChat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), conv, renderer)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatURLFlag, "url", defaultURL, "Base URL of the chatrelay server")
	chatCmd.Flags().StringVar(&chatStyleFlag, "style", render.DefaultOptions().Style, "Markdown style (dark, light, notty or a JSON style path)")
	chatCmd.Flags().IntVar(&chatWidthFlag, "width", render.DefaultOptions().Width, "Word wrap width")
}

// runChat reads one message per line from in until EOF or /quit.
func runChat(ctx context.Context, in io.Reader, out io.Writer, conv *client.Conversation, r *render.Renderer) error {
	conv.OnError = func(err error) {
		fmt.Fprintf(out, "error: %v\n", err)
	}

	for _, msg := range conv.Transcript() {
		fmt.Fprintln(out, r.Message(msg))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			for _, msg := range conv.Clear() {
				fmt.Fprintln(out, r.Message(msg))
			}
			continue
		}

		transcript, err := conv.Submit(ctx, line)
		if err != nil {
			if errors.Is(err, client.ErrBlankInput) || errors.Is(err, client.ErrBusy) {
				continue
			}
			return err
		}
		if last, ok := transcript.Last(); ok {
			fmt.Fprintln(out, r.Message(last))
		}
	}
}
