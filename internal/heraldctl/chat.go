package heraldctl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/kiosk404/herald/pkg/version"
	"github.com/spf13/cobra"
)

type ChatOptions struct {
	*GlobalOptions

	SessionID string
	Timezone  string
}

func NewCmdChat(g *GlobalOptions) *cobra.Command {
	o := &ChatOptions{GlobalOptions: g}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: heredoc.Doc(`
			Open a line-oriented conversation with herald. Every turn is sent
			within one session so follow-up questions see the earlier turns.

			Commands: /new starts a fresh session, /quit exits.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&o.SessionID, "session", "", "Resume an existing session")
	cmd.Flags().StringVar(&o.Timezone, "timezone", "", "IANA timezone sent with every query")

	return cmd
}

func (o *ChatOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client := o.Client()
	o.banner(client)

	scanner := bufio.NewScanner(o.In)
	for {
		promptColor.Fprint(o.Out, "> ")
		if !scanner.Scan() {
			dimColor.Fprintln(o.Out, "\nGoodbye!")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/quit", "/exit":
			dimColor.Fprintln(o.Out, "Goodbye!")
			return nil
		case "/new":
			o.SessionID = ""
			dimColor.Fprintln(o.Out, "Started a new session.")
			continue
		}

		o.turn(ctx, client, input)
		fmt.Fprintln(o.Out)
	}
}

func (o *ChatOptions) turn(ctx context.Context, client *Client, input string) {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	res, ok, err := client.ChatStream(ctx, ChatRequest{
		Query:     input,
		SessionID: o.SessionID,
		Timezone:  o.Timezone,
	}, func(st StateEvent) {
		dimColor.Fprintf(o.Out, "\r\033[K%s...", strings.ToLower(st.To))
	})
	fmt.Fprint(o.Out, "\r\033[K")
	if err != nil {
		errorColor.Fprintf(o.Out, "Error: %v\n", err)
		return
	}
	if res.SessionID != "" {
		o.SessionID = res.SessionID
	}
	printResult(o.Out, res, ok, false)
}

func (o *ChatOptions) banner(client *Client) {
	sep := strings.Repeat("-", termWidth())
	w := o.Out
	promptColor.Fprintln(w, sep)
	labelColor.Fprintf(w, "Herald %s\n\n", version.GitVersion)
	printField(w, "Server", client.BaseURL)
	printField(w, "User", client.UserID)
	if o.SessionID != "" {
		printField(w, "Session", o.SessionID)
	}
	promptColor.Fprintln(w, sep)
}

func printField(w io.Writer, name, value string) {
	fmt.Fprintf(w, "  %-8s %s\n", name+":", value)
}
