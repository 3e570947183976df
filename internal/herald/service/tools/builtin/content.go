package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
)

func registerContent(r *service.Registry, deps Deps) {
	r.Register(GenerateContent, entity.ToolFunc(func(ctx context.Context, _ string, params map[string]any) (any, error) {
		topic := str(params, "topic")
		format := str(params, "format")
		if format == "" {
			format = "article"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Write a %s about: %s\n", format, topic)
		if tone := str(params, "tone"); tone != "" {
			fmt.Fprintf(&b, "Tone: %s\n", tone)
		}
		if words := num(params, "length", 0); words > 0 {
			fmt.Fprintf(&b, "Target length: about %d words\n", words)
		}

		content, err := complete(ctx, deps,
			"You are a skilled writer. Produce only the requested content in markdown, without preamble.",
			b.String())
		if err != nil {
			return nil, err
		}
		return &entity.GeneratedContent{Topic: topic, Format: format, Content: content}, nil
	}), &entity.ToolMetadata{
		Description: "Draft written content such as an article, email, outline, poem or social post.",
		Category:    entity.CategoryProductivity,
		Parameters: []entity.ParameterSpec{
			{Name: "topic", Type: entity.ParamString, Description: "What to write about", Required: true},
			{Name: "format", Type: entity.ParamString, Description: "Kind of content", Examples: []string{"article", "email", "outline", "poem"}},
			{Name: "tone", Type: entity.ParamString, Description: "Desired tone"},
			{Name: "length", Type: entity.ParamNumber, Description: "Approximate word count"},
		},
		Examples: []entity.ToolExample{
			{Query: "Write a short blog post about remote work", ExpectedParams: map[string]any{"topic": "remote work", "format": "blog post"}},
			{Query: "Draft a thank-you note to my team and save it", ExpectedParams: map[string]any{"topic": "thank-you note to my team", "format": "note"}},
		},
		TimeContext: entity.TimeAny,
		DataAccess:  entity.AccessRead,
	})
}
