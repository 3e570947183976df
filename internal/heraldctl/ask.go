package heraldctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

type AskOptions struct {
	*GlobalOptions

	SessionID string
	Timezone  string
	Stream    bool
	Raw       bool
}

func NewCmdAsk(g *GlobalOptions) *cobra.Command {
	o := &AskOptions{GlobalOptions: g}

	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Send a single query and print the reply",
		Example: heredoc.Doc(`
			# Ask about today's calendar
			heraldctl ask "what's on my calendar today?"

			# Continue a conversation and watch the pipeline stages
			heraldctl ask --session=3f2a... --stream "and tomorrow?"
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&o.SessionID, "session", "", "Session ID to continue")
	cmd.Flags().StringVar(&o.Timezone, "timezone", "", "IANA timezone sent with the query")
	cmd.Flags().BoolVar(&o.Stream, "stream", false, "Print pipeline states as they happen")
	cmd.Flags().BoolVar(&o.Raw, "raw", false, "Print the reply without markdown rendering")

	return cmd
}

func (o *AskOptions) Run(ctx context.Context, query string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client := o.Client()
	req := ChatRequest{Query: query, SessionID: o.SessionID, Timezone: o.Timezone}

	var (
		res *ChatResult
		ok  bool
		err error
	)
	if o.Stream {
		res, ok, err = client.ChatStream(ctx, req, func(st StateEvent) { printState(o.Out, st) })
	} else {
		res, ok, err = client.Chat(ctx, req)
	}
	if err != nil {
		return err
	}

	printResult(o.Out, res, ok, o.Raw)
	if res.SessionID != "" && o.SessionID == "" {
		dimColor.Fprintf(o.Out, "session: %s\n", res.SessionID)
	}
	if !ok {
		return fmt.Errorf("query failed in state %s", res.State)
	}
	return nil
}
