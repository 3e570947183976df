package heraldctl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	labelColor  = color.New(color.FgHiMagenta, color.Bold)
	promptColor = color.New(color.FgHiYellow, color.Bold)
	dimColor    = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed, color.Bold)
	toolColor   = color.New(color.FgCyan)
)

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// renderMarkdown renders content for the terminal; on any renderer error the
// raw text is returned.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 76
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithColorProfile(termenv.ANSI256),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// printResult writes one assistant reply. Markdown is preferred when the
// server kept it.
func printResult(out io.Writer, res *ChatResult, ok bool, raw bool) {
	labelColor.Fprintln(out, "herald")
	body := res.Response
	if res.OriginalResponse != "" {
		body = res.OriginalResponse
	}
	switch {
	case !ok:
		errorColor.Fprintln(out, body)
	case raw:
		fmt.Fprintln(out, body)
	default:
		fmt.Fprintln(out, renderMarkdown(body, termWidth()-4))
	}

	if res.ToolUsed != "" {
		tools := res.ToolUsed
		if len(res.ChainedTools) > 0 {
			tools += " -> " + strings.Join(res.ChainedTools, ", ")
		}
		dimColor.Fprintf(out, "tool: %s\n", toolColor.Sprint(tools))
	}
	for _, a := range res.SuggestedActions {
		dimColor.Fprintf(out, "  * %s\n", a)
	}
}

func printState(out io.Writer, st StateEvent) {
	if st.Detail != "" {
		dimColor.Fprintf(out, "  %s (%s)\n", st.To, st.Detail)
		return
	}
	dimColor.Fprintf(out, "  %s\n", st.To)
}
