package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	prefEntity "github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestGenerateFailureSkipsModel(t *testing.T) {
	m := &scriptedModel{}
	r := NewResponder(m, time.Second)

	failed := toolEntity.Failure("teleport", "Tool 'teleport' not found", fixedNow)
	out := r.Generate(context.Background(), baseContext(), &entity.ToolSelection{Tool: "teleport"}, failed, "alice", nil)

	assert.Contains(t, out, "I couldn't retrieve the information")
	assert.Contains(t, out, "Tool 'teleport' not found")
	assert.Zero(t, m.respondCalls)
}

func TestGenerateModelFailureFallback(t *testing.T) {
	m := &scriptedModel{respond: func(string, string) (string, error) { return "", errors.New("overloaded") }}
	out := NewResponder(m, time.Second).Generate(context.Background(), baseContext(),
		&entity.ToolSelection{Tool: builtin.Calculate}, okResult(builtin.Calculate, 4), "alice", nil)
	assert.Equal(t, GenerationFallback, out)

	blank := &scriptedModel{respond: func(string, string) (string, error) { return "   ", nil }}
	out = NewResponder(blank, time.Second).Generate(context.Background(), baseContext(),
		&entity.ToolSelection{Tool: builtin.Calculate}, okResult(builtin.Calculate, 4), "alice", nil)
	assert.Equal(t, GenerationFallback, out)
}

func TestGeneratePromptPersonalization(t *testing.T) {
	m := &scriptedModel{respond: func(string, string) (string, error) { return "You have 2 events today.", nil }}
	uc := baseContext()
	uc.Personalization = &entity.Personalization{
		Profile:        &prefEntity.Preferences{CommunicationStyle: prefEntity.CommunicationStyle{Tone: "enthusiastic"}},
		CurrentContext: entity.CurrentContext{TimeOfDay: "morning", DayOfWeek: "Monday"},
	}
	uc.Preferences.ResponseStyle = entity.StyleBrief

	out := NewResponder(m, time.Second).Generate(context.Background(), uc,
		&entity.ToolSelection{Tool: builtin.GetCalendarEvents}, okResult(builtin.GetCalendarEvents, &toolEntity.EventList{Count: 2}), "alice", nil)

	assert.Equal(t, "You have 2 events today.", out)
	assert.Contains(t, m.lastSystem, ToneInstruction("enthusiastic"))
	assert.Contains(t, m.lastSystem, "two or three sentences")
	assert.Contains(t, m.lastSystem, "Markdown is allowed")
	assert.Contains(t, m.lastUser, "Tool used: get_calendar_events")
	assert.Contains(t, m.lastUser, `"count":2`)
	assert.Contains(t, m.lastUser, "It is morning on Monday.")
}

func TestGenerateVoiceMode(t *testing.T) {
	m := &scriptedModel{}
	uc := baseContext()
	uc.Preferences.IsVoiceMode = true

	NewResponder(m, time.Second).Generate(context.Background(), uc,
		&entity.ToolSelection{Tool: builtin.Calculate}, okResult(builtin.Calculate, 4), "alice", nil)
	assert.Contains(t, m.lastSystem, "read aloud")
	assert.NotContains(t, m.lastSystem, "Markdown is allowed")
}

func TestGenerateMultiSite(t *testing.T) {
	m := &scriptedModel{respond: func(string, string) (string, error) { return "Fusion is progressing.", nil }}
	bundle := &entity.CrawlBundle{
		AutoCrawled:       true,
		TotalSitesCrawled: 2,
		CrawledSites: []entity.CrawledSite{
			{URL: "https://www.iter.org/news", Title: "ITER News"},
			{URL: "https://example.org/fusion"},
		},
	}

	out := NewResponder(m, time.Second).Generate(context.Background(), baseContext(),
		&entity.ToolSelection{Tool: builtin.WebSearch}, okResult(builtin.WebSearch, bundle), "alice", nil)

	assert.Contains(t, m.lastSystem, "multiple sites were consulted")
	assert.Equal(t, "Fusion is progressing.\n\nSources consulted (2 sites): ITER News (https://www.iter.org/news); https://example.org/fusion", out)
}

func TestSourcesLine(t *testing.T) {
	sites := []entity.CrawledSite{
		{URL: "https://www.iter.org/news", Title: "ITER News"},
		{URL: "https://example.org/fusion"},
	}
	assert.Equal(t, "I consulted 2 sites for this: ITER News, example.org.", SourcesLine(sites, true))
	assert.Equal(t, "Sources consulted (1 site): ITER News (https://www.iter.org/news)", SourcesLine(sites[:1], false))
}

func TestToneInstruction(t *testing.T) {
	for _, tone := range prefEntity.Tones {
		assert.NotEqual(t, defaultToneInstruction, ToneInstruction(tone), tone)
	}
	assert.Equal(t, defaultToneInstruction, ToneInstruction(""))
	assert.Equal(t, defaultToneInstruction, ToneInstruction("sarcastic"))
	assert.Equal(t, ToneInstruction("formal"), ToneInstruction("Formal"))
}
