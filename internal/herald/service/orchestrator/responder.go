package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/utils/json"
)

const (
	GenerationFallback = "I retrieved the information you asked for, but I couldn't put together a response just now. Please try again in a moment."

	maxResultChars = 12000
)

var toneInstructions = map[string]string{
	"professional": "Use a professional, polished tone.",
	"casual":       "Keep the tone casual and relaxed, like talking to a friend.",
	"friendly":     "Be warm and friendly.",
	"formal":       "Use a formal and respectful tone.",
	"enthusiastic": "Be upbeat and enthusiastic.",
	"balanced":     "Use a balanced tone: friendly but to the point.",
}

const defaultToneInstruction = "Be helpful, clear and natural."

// ToneInstruction maps a stored tone to a prompt instruction.
func ToneInstruction(tone string) string {
	if s, ok := toneInstructions[strings.ToLower(tone)]; ok {
		return s
	}
	return defaultToneInstruction
}

// FailureMessage is returned for failed tool results without a model call.
func FailureMessage(errText string) string {
	if strings.TrimSpace(errText) == "" {
		errText = "unknown error"
	}
	return fmt.Sprintf("I'm sorry, I couldn't retrieve the information you asked for (%s). Please try again or rephrase your request.", errText)
}

// Responder phrases tool results in natural language.
type Responder struct {
	model   model.BaseChatModel
	timeout time.Duration
}

func NewResponder(m model.BaseChatModel, timeout time.Duration) *Responder {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Responder{model: m, timeout: timeout}
}

// Generate never returns an empty string.
func (r *Responder) Generate(ctx context.Context, uc *entity.UserContext, sel *entity.ToolSelection, result *toolEntity.ToolResult, userID string, conv *entity.ConversationContext) string {
	if result == nil || !result.Success {
		msg := ""
		if result != nil {
			msg = result.Error
		}
		return FailureMessage(msg)
	}
	if r.model == nil {
		return GenerationFallback
	}

	sites := crawledSites(result.Data)
	msgs := []*schema.Message{
		{Role: schema.System, Content: responseSystemPrompt(uc, len(sites))},
		{Role: schema.User, Content: responseUserPrompt(uc, sel, result, conv)},
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	resp, err := r.model.Generate(ctx, msgs)
	if err != nil || resp == nil || strings.TrimSpace(resp.Content) == "" {
		logger.Warn("[Responder] generation failed for user %s: %v", userID, err)
		return GenerationFallback
	}

	text := strings.TrimSpace(resp.Content)
	if len(sites) > 0 {
		text += "\n\n" + SourcesLine(sites, uc.VoiceMode())
	}
	return text
}

func responseSystemPrompt(uc *entity.UserContext, sites int) string {
	var b strings.Builder
	b.WriteString("You are a personal assistant answering the user with data a tool just returned. Base the answer on that data; do not invent facts it does not contain.\n")
	b.WriteString(ToneInstruction(uc.Tone()) + "\n")

	switch uc.Preferences.ResponseStyle {
	case entity.StyleBrief:
		b.WriteString("Keep it short: two or three sentences.\n")
	case entity.StyleDetailed:
		b.WriteString("Be thorough and include the relevant specifics.\n")
	default:
		b.WriteString("Answer conversationally, with just enough detail.\n")
	}

	if uc.VoiceMode() {
		b.WriteString("The answer will be read aloud. Write flowing prose with clear verbal transitions. Do not use markdown, lists, tables, links or emoji.\n")
	} else {
		b.WriteString("Markdown is allowed: use short lists or bold text where it helps readability.\n")
	}

	if sites > 1 {
		fmt.Fprintf(&b, "The data combines %d crawled web pages. Synthesize across all of them, point out where the sources agree or conflict, and say explicitly that multiple sites were consulted.\n", sites)
	}
	return b.String()
}

func responseUserPrompt(uc *entity.UserContext, sel *entity.ToolSelection, result *toolEntity.ToolResult, conv *entity.ConversationContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User query: %s\n", uc.Query)
	if sel != nil {
		fmt.Fprintf(&b, "Tool used: %s\n", sel.Tool)
	}
	if p := uc.Personalization; p != nil {
		fmt.Fprintf(&b, "It is %s on %s.\n", p.CurrentContext.TimeOfDay, p.CurrentContext.DayOfWeek)
		if p.Profile != nil && len(p.Profile.Interests) > 0 {
			fmt.Fprintf(&b, "User interests: %s\n", strings.Join(p.Profile.Interests, ", "))
		}
	}

	if conv != nil && len(conv.Messages) > 0 {
		b.WriteString("\nRecent conversation (oldest first):\n")
		for _, m := range conv.Messages {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, truncate(m.Content, 300))
		}
	}

	data, err := json.MarshalString(result.Data)
	if err != nil {
		data = fmt.Sprintf("%v", result.Data)
	}
	fmt.Fprintf(&b, "\nTool result:\n%s\n", truncate(data, maxResultChars))
	return b.String()
}

func crawledSites(data any) []entity.CrawledSite {
	switch v := data.(type) {
	case *entity.CrawlBundle:
		return v.CrawledSites
	case entity.CrawlBundle:
		return v.CrawledSites
	}
	return nil
}

// SourcesLine lists the crawled sites in a fixed format.
func SourcesLine(sites []entity.CrawledSite, voice bool) string {
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		name := strings.TrimSpace(s.Title)
		if voice {
			if name == "" {
				name = hostOf(s.URL)
			}
			names = append(names, name)
			continue
		}
		if name == "" {
			names = append(names, s.URL)
		} else {
			names = append(names, fmt.Sprintf("%s (%s)", name, s.URL))
		}
	}

	noun := "site"
	if len(sites) != 1 {
		noun = "sites"
	}
	if voice {
		return fmt.Sprintf("I consulted %d %s for this: %s.", len(sites), noun, strings.Join(names, ", "))
	}
	return fmt.Sprintf("Sources consulted (%d %s): %s", len(sites), noun, strings.Join(names, "; "))
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
