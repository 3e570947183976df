package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	prefEntity "github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseContext() *entity.UserContext {
	return &entity.UserContext{
		Query:     "What's on my calendar today?",
		Timestamp: fixedNow,
		Preferences: entity.RequestPreferences{
			IncludeActions: true,
		},
	}
}

func TestEnrichFailOpen(t *testing.T) {
	for name, src := range map[string]PreferenceSource{
		"error":   &fakePrefs{err: errors.New("store down")},
		"missing": &fakePrefs{},
		"nil":     nil,
	} {
		t.Run(name, func(t *testing.T) {
			uc := baseContext()
			before := *uc

			got := NewEnricher(src, time.Second).Enrich(context.Background(), uc, "alice")
			assert.Same(t, uc, got)
			assert.Equal(t, before, *got)
			assert.Nil(t, got.Personalization)
		})
	}
}

func TestEnrichReturnsDerivedCopy(t *testing.T) {
	profile := &prefEntity.Preferences{
		UserID:             "alice",
		CommunicationStyle: prefEntity.CommunicationStyle{Tone: "friendly", DetailLevel: "comprehensive"},
		Interests:          []string{"cycling"},
		Timezone:           "America/New_York",
	}
	uc := baseContext()

	got := NewEnricher(&fakePrefs{prefs: profile}, time.Second).Enrich(context.Background(), uc, "alice")
	require.NotSame(t, uc, got)

	assert.Nil(t, uc.Personalization)
	assert.Empty(t, uc.Timezone)
	assert.Empty(t, uc.Preferences.ResponseStyle)

	assert.Equal(t, uc.Query, got.Query)
	assert.True(t, uc.Timestamp.Equal(got.Timestamp))
	assert.True(t, got.Preferences.IncludeActions)
	assert.Equal(t, entity.StyleDetailed, got.Preferences.ResponseStyle)
	assert.Equal(t, "America/New_York", got.Timezone)
	assert.Equal(t, "friendly", got.Tone())

	require.NotNil(t, got.Personalization)
	// 08:30 UTC is 03:30 in New York.
	assert.Equal(t, "morning", got.Personalization.CurrentContext.TimeOfDay)
	assert.Equal(t, "Monday", got.Personalization.CurrentContext.DayOfWeek)
}

func TestEnrichKeepsRequestStyle(t *testing.T) {
	uc := baseContext()
	uc.Preferences.ResponseStyle = entity.StyleBrief
	profile := &prefEntity.Preferences{CommunicationStyle: prefEntity.CommunicationStyle{DetailLevel: "detailed"}}

	got := NewEnricher(&fakePrefs{prefs: profile}, time.Second).Enrich(context.Background(), uc, "alice")
	assert.Equal(t, entity.StyleBrief, got.Preferences.ResponseStyle)
}

func TestStyleForDetail(t *testing.T) {
	cases := map[string]entity.ResponseStyle{
		"brief":         entity.StyleBrief,
		"detailed":      entity.StyleDetailed,
		"comprehensive": entity.StyleDetailed,
		"":              entity.StyleConversational,
		"chatty":        entity.StyleConversational,
	}
	for in, want := range cases {
		assert.Equal(t, want, StyleForDetail(in), in)
	}
}

func TestTimeOfDay(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 2, h, 0, 0, 0, time.UTC) }
	assert.Equal(t, "morning", TimeOfDay(at(0)))
	assert.Equal(t, "morning", TimeOfDay(at(11)))
	assert.Equal(t, "afternoon", TimeOfDay(at(12)))
	assert.Equal(t, "afternoon", TimeOfDay(at(16)))
	assert.Equal(t, "evening", TimeOfDay(at(17)))
	assert.Equal(t, "evening", TimeOfDay(at(23)))
}
