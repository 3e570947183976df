package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/utils/json"
)

const selectionSystemPrompt = `You are the planning step of a personal assistant. Decide how to answer the user's query.

Either pick exactly one tool from the catalog and fill in its parameters, or answer directly when no tool is needed (greetings, general knowledge, opinions, follow-ups that history already answers).

Rules:
- Only include parameters whose values are stated in, or clearly implied by, the query or conversation. Omit the rest.
- Dates may be relative ("today", "tomorrow", "friday"); leave the date out entirely when the user means today.
- Resolve references such as "it", "that file" or "the second one" from the recent conversation when you can.
- When nothing sensible can be done, return tool null with an empty geminiOutput.

Reply with a single JSON object and nothing else:
{
  "tool": "<tool name or null>",
  "confidence": <0-100>,
  "parameters": { },
  "reasoning": "<one sentence>",
  "geminiOutput": "<direct answer when tool is null, otherwise empty>",
  "category": "<category of the chosen tool, or general>",
  "canUseGemini": <true when answering directly>
}`

// BuildSelectionPrompt renders the user half of the selection prompt.
func BuildSelectionPrompt(catalog []*toolEntity.ToolMetadata, uc *entity.UserContext, conv *entity.ConversationContext) string {
	var b strings.Builder

	b.WriteString("# Tool catalog\n")
	writeCatalog(&b, catalog)

	loc := uc.Location()
	ts := uc.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	local := ts.In(loc)
	b.WriteString("\n# Request\n")
	fmt.Fprintf(&b, "Current time: %s (%s, %s)\n", local.Format(time.RFC3339), loc.String(), local.Weekday())
	if uc.VoiceMode() {
		b.WriteString("Input mode: voice\n")
	}

	if !conv.Empty() {
		writeHistory(&b, conv)
	}
	if p := uc.Personalization; p != nil && p.Profile != nil {
		b.WriteString("\n# About the user\n")
		if len(p.Profile.Interests) > 0 {
			fmt.Fprintf(&b, "Interests: %s\n", strings.Join(p.Profile.Interests, ", "))
		}
		if p.Profile.Proactivity != "" {
			fmt.Fprintf(&b, "Proactivity: %s\n", p.Profile.Proactivity)
		}
		fmt.Fprintf(&b, "It is %s on %s.\n", p.CurrentContext.TimeOfDay, p.CurrentContext.DayOfWeek)
	}

	fmt.Fprintf(&b, "\nQuery: %s\n", uc.Query)
	return b.String()
}

func writeCatalog(b *strings.Builder, catalog []*toolEntity.ToolMetadata) {
	byCategory := make(map[toolEntity.Category][]*toolEntity.ToolMetadata)
	for _, m := range catalog {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}
	for _, cat := range toolEntity.Categories() {
		tools := byCategory[cat]
		if len(tools) == 0 {
			continue
		}
		sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
		fmt.Fprintf(b, "\n## %s\n", cat)
		for _, m := range tools {
			fmt.Fprintf(b, "- %s: %s\n", m.Name, m.Description)
			fmt.Fprintf(b, "  time: %s, access: %s\n", orDash(string(m.TimeContext)), orDash(string(m.DataAccess)))
			for _, p := range m.Parameters {
				req := "optional"
				if p.Required {
					req = "required"
				}
				fmt.Fprintf(b, "  - param %s (%s, %s): %s", p.Name, p.Type, req, p.Description)
				if len(p.Examples) > 0 {
					fmt.Fprintf(b, " e.g. %s", strings.Join(p.Examples, ", "))
				}
				b.WriteByte('\n')
			}
			for _, ex := range m.Examples {
				params, _ := json.MarshalSorted(ex.ExpectedParams)
				fmt.Fprintf(b, "  - example %q -> %s\n", ex.Query, params)
			}
		}
	}
}

func writeHistory(b *strings.Builder, conv *entity.ConversationContext) {
	if len(conv.Messages) > 0 {
		b.WriteString("\n# Recent conversation (oldest first)\n")
		for _, m := range conv.Messages {
			fmt.Fprintf(b, "%s: %s\n", m.Role, truncate(m.Content, 500))
		}
	}
	if len(conv.ToolCalls) > 0 {
		b.WriteString("\n# Recent tool usage (oldest first)\n")
		for _, c := range conv.ToolCalls {
			params, _ := json.MarshalSorted(c.Parameters)
			status := "ok"
			if !c.Success {
				status = "failed"
			}
			fmt.Fprintf(b, "- %s %s %s\n", c.Tool, params, status)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
