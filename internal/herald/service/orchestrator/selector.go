package orchestrator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/utils/json"
)

// Selector asks the reasoning model which tool answers a query.
type Selector struct {
	model   model.BaseChatModel
	catalog Catalog
	timeout time.Duration
}

func NewSelector(m model.BaseChatModel, catalog Catalog, timeout time.Duration) *Selector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Selector{model: m, catalog: catalog, timeout: timeout}
}

// Select returns nil when the model is unreachable or its reply is not valid
// JSON. Tool names are not checked against the registry here; an unknown
// name fails later as "not found".
func (s *Selector) Select(ctx context.Context, uc *entity.UserContext, userID string, conv *entity.ConversationContext) (*entity.ToolSelection, error) {
	if s.model == nil {
		return nil, fmt.Errorf("no reasoning model configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msgs := []*schema.Message{
		{Role: schema.System, Content: selectionSystemPrompt},
		{Role: schema.User, Content: BuildSelectionPrompt(s.catalog.GetAllMetadata(), uc, conv)},
	}
	resp, err := s.model.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("selection model call: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("selection model returned no message")
	}

	sel, err := ParseSelection(resp.Content)
	if err != nil {
		logger.Warn("[Selector] unparseable selection for user %s: %v", userID, err)
		return nil, nil
	}
	if sel.Tool != "" {
		if _, ok := s.catalog.GetMetadata(sel.Tool); !ok {
			logger.Warn("[Selector] model chose unregistered tool %q", sel.Tool)
		}
	}
	logger.Info("[Selector] query=%q tool=%q confidence=%d", uc.Query, sel.Tool, sel.Confidence)
	return sel, nil
}

type rawSelection struct {
	Tool         any            `json:"tool"`
	Confidence   any            `json:"confidence"`
	Parameters   map[string]any `json:"parameters"`
	Reasoning    string         `json:"reasoning"`
	GeminiOutput string         `json:"geminiOutput"`
	Category     string         `json:"category"`
	CanUseGemini bool           `json:"canUseGemini"`
}

// ParseSelection decodes a model reply, tolerating surrounding code fences.
func ParseSelection(reply string) (*entity.ToolSelection, error) {
	body := StripCodeFences(reply)
	if body == "" {
		return nil, fmt.Errorf("empty reply")
	}

	var raw rawSelection
	if err := json.UnmarshalString(body, &raw); err != nil {
		return nil, err
	}

	tool, _ := raw.Tool.(string)
	tool = strings.TrimSpace(tool)
	switch strings.ToLower(tool) {
	case "null", "none":
		tool = ""
	}

	sel := &entity.ToolSelection{
		Tool:              tool,
		Confidence:        clampConfidence(raw.Confidence),
		Parameters:        raw.Parameters,
		Reasoning:         raw.Reasoning,
		DirectAnswer:      strings.TrimSpace(raw.GeminiOutput),
		Category:          raw.Category,
		CanAnswerDirectly: raw.CanUseGemini,
	}
	if sel.Parameters == nil {
		sel.Parameters = map[string]any{}
	}
	return sel, nil
}

// StripCodeFences removes a ``` or ```json wrapper and surrounding prose.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			lang := strings.TrimSpace(s[:nl])
			if lang == "" || !strings.ContainsAny(lang, "{[") {
				s = s[nl+1:]
			}
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func clampConfidence(v any) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	// Some models answer on a 0..1 scale.
	if f > 0 && f < 1 {
		f *= 100
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}
