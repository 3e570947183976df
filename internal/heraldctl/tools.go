package heraldctl

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func NewCmdTools(g *GlobalOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools herald can call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(contextOf(cmd), g.Timeout)
			defer cancel()

			tools, err := g.Client().Tools(ctx, category)
			if err != nil {
				return err
			}

			table := uitable.New()
			table.MaxColWidth = 72
			table.Wrap = true
			table.AddRow(labelColor.Sprint("NAME"), labelColor.Sprint("CATEGORY"), labelColor.Sprint("DESCRIPTION"))
			for _, t := range tools {
				table.AddRow(toolColor.Sprint(t.Name), t.Category, t.Description)
			}
			fmt.Fprintln(g.Out, table)
			dimColor.Fprintf(g.Out, "%d tools\n", len(tools))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list tools in this category")

	return cmd
}

func NewCmdSessions(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List your conversation sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(contextOf(cmd), g.Timeout)
			defer cancel()

			sessions, err := g.Client().Sessions(ctx)
			if err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow(labelColor.Sprint("ID"), labelColor.Sprint("TITLE"), labelColor.Sprint("UPDATED"))
			for _, s := range sessions {
				table.AddRow(s.ID, s.Title, s.UpdatedAt)
			}
			fmt.Fprintln(g.Out, table)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(contextOf(cmd), g.Timeout)
			defer cancel()

			if err := g.Client().DeleteSession(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(g.Out, "session %s deleted\n", args[0])
			return nil
		},
	})

	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
