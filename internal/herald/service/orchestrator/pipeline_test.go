package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	sessEntity "github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	sessService "github.com/kiosk404/herald/internal/herald/service/sessions/domain/service"
	sessInmemory "github.com/kiosk404/herald/internal/herald/service/sessions/store/inmemory"
	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	"github.com/kiosk404/herald/internal/herald/service/tools/cache"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	wsEntity "github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
	wsInmemory "github.com/kiosk404/herald/internal/herald/service/workspace/store/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarSelection = `{"tool":"get_calendar_events","confidence":95,"parameters":{},"reasoning":"The user asks about today's schedule","category":"calendar","canUseGemini":false}`

type harness struct {
	registry *service.Registry
	executor *service.Executor
	model    *scriptedModel
	pipeline *Pipeline
}

type harnessOption func(*Dependencies, *Config)

func withSessions(s sessService.SessionService) harnessOption {
	return func(d *Dependencies, c *Config) {
		d.Sessions = s
		c.AutoCreateSession = true
	}
}

func withPreferences(p PreferenceSource) harnessOption {
	return func(d *Dependencies, _ *Config) { d.Preferences = p }
}

// newHarness wires the built-in tools against an in-memory workspace with
// two events today and one tomorrow.
func newHarness(t *testing.T, m *scriptedModel, opts ...harnessOption) *harness {
	t.Helper()
	ctx := context.Background()

	ws := wsInmemory.NewWorkspaceStore()
	for _, ev := range []*wsEntity.Event{
		{ID: "e1", UserID: "alice", Title: "Standup", Start: fixedNow.Add(90 * time.Minute), End: fixedNow.Add(105 * time.Minute)},
		{ID: "e2", UserID: "alice", Title: "Design review", Start: fixedNow.Add(6 * time.Hour), End: fixedNow.Add(7 * time.Hour)},
		{ID: "e3", UserID: "alice", Title: "Dentist", Start: fixedNow.AddDate(0, 0, 1), End: fixedNow.AddDate(0, 0, 1).Add(time.Hour)},
	} {
		require.NoError(t, ws.SaveEvent(ctx, ev))
	}

	registry := service.NewRegistry()
	builtin.Register(registry, builtin.Deps{Workspace: ws, Now: fixedClock})
	executor := service.NewExecutor(registry,
		cache.NewMemoryCache(cache.DefaultTTL, cache.DefaultMaxEntries, cache.WithClock(fixedClock)),
		service.ExecutorConfig{Timeout: 5 * time.Second})
	executor.SetClock(fixedClock)

	deps := Dependencies{ChatModel: m, Tools: executor, Catalog: registry}
	cfg := Config{HistoryLimit: 6, StoreTimeout: time.Second}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}
	p := NewPipeline(deps, cfg)
	p.SetClock(fixedClock)

	return &harness{registry: registry, executor: executor, model: m, pipeline: p}
}

// replaceWebTools swaps the built-in web tools for deterministic fakes.
func (h *harness) replaceWebTools(results *toolEntity.SearchResults, crawler *crawlTool) {
	h.registry.Register(builtin.WebSearch, toolEntity.ToolFunc(func(context.Context, string, map[string]any) (any, error) {
		return results, nil
	}), meta(builtin.WebSearch, toolEntity.CategorySearch, toolEntity.AccessRead,
		toolEntity.ParameterSpec{Name: "query", Type: toolEntity.ParamString, Required: true}))
	h.registry.Register(builtin.CrawlWebpage, crawler, meta(builtin.CrawlWebpage, toolEntity.CategoryWeb, toolEntity.AccessRead,
		toolEntity.ParameterSpec{Name: "url", Type: toolEntity.ParamString, Required: true}))
}

func TestScenarioCalendarToday(t *testing.T) {
	m := &scriptedModel{
		selection: calendarSelection,
		respond: func(_, user string) (string, error) {
			if strings.Contains(user, `"count":2`) {
				return "You have 2 events on your calendar today: Standup and Design review.", nil
			}
			return "unexpected data", nil
		},
	}
	h := newHarness(t, m)

	resp := h.pipeline.ProcessQuery(context.Background(), Request{
		UserID:      "alice",
		Query:       "What's on my calendar today?",
		Preferences: entity.RequestPreferences{IncludeActions: true},
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, entity.StateDone, resp.State)
	assert.Equal(t, builtin.GetCalendarEvents, resp.ToolUsed)
	assert.Equal(t, "The user asks about today's schedule", resp.Reasoning)
	assert.Contains(t, resp.NaturalResponse, "2 events")
	assert.Empty(t, resp.ChainedTools)
	assert.Empty(t, resp.SessionID)

	events, ok := resp.RawData.(*toolEntity.EventList)
	require.True(t, ok)
	assert.Equal(t, 2, events.Count)
	assert.Equal(t, "2026-03-02", events.Date)
	assert.Equal(t, SuggestedActions(toolEntity.CategoryCalendar), resp.SuggestedActions)

	// The same request again is served from the result cache.
	again := h.pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "What's on my calendar today?"})
	require.True(t, again.Success)
	assert.Equal(t, resp.RawData, again.RawData)
	stats := h.executor.Stats()
	assert.Equal(t, int64(1), stats.Executions)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestScenarioResearchChainsIntoCrawl(t *testing.T) {
	m := &scriptedModel{
		selection: `{"tool":"web_search","confidence":88,"parameters":{"query":"fusion energy developments"},"reasoning":"Needs current information","category":"search"}`,
		respond: func(string, string) (string, error) {
			return "Fusion research is accelerating, with several sites reporting record plasma times.", nil
		},
	}
	h := newHarness(t, m)
	crawler := &crawlTool{pages: map[string]string{
		"https://a.example": "Alpha", "https://b.example": "Beta", "https://c.example": "Gamma",
		"https://d.example": "Delta", "https://e.example": "Epsilon",
	}}
	h.replaceWebTools(searchResults("fusion energy developments",
		"https://a.example", "https://b.example", "https://c.example", "https://d.example", "https://e.example"), crawler)

	var (
		mu     sync.Mutex
		states []entity.State
	)
	resp := h.pipeline.ProcessQuery(context.Background(), Request{
		UserID: "alice",
		Query:  "Research the latest developments in fusion energy",
		Observer: func(tr entity.Transition) {
			mu.Lock()
			states = append(states, tr.To)
			mu.Unlock()
		},
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, builtin.WebSearch, resp.ToolUsed)
	assert.Equal(t, []string{builtin.WebSearch, builtin.CrawlWebpage}, resp.ChainedTools)
	assert.Equal(t, 3, crawler.Calls())

	bundle, ok := resp.RawData.(*entity.CrawlBundle)
	require.True(t, ok)
	assert.Equal(t, 3, bundle.TotalSitesCrawled)
	assert.True(t, bundle.AutoCrawled)

	assert.Contains(t, m.lastSystem, "multiple sites were consulted")
	assert.Contains(t, resp.NaturalResponse, "Sources consulted (3 sites)")
	assert.Contains(t, resp.NaturalResponse, "Alpha (https://a.example)")

	assert.Equal(t, []entity.State{
		entity.StateReceived, entity.StateEnriching, entity.StateSelecting, entity.StateExecuting,
		entity.StateChainCheck, entity.StateChaining, entity.StateGenerating, entity.StateDone,
	}, states)
}

func TestScenarioGibberish(t *testing.T) {
	m := &scriptedModel{selection: `{"tool":null,"confidence":0,"parameters":{},"reasoning":"The query is not understandable"}`}
	h := newHarness(t, m)

	resp := h.pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "asdkjalskdj"})

	assert.False(t, resp.Success)
	assert.Equal(t, entity.StateError, resp.State)
	assert.Equal(t, NotSureMessage, resp.NaturalResponse)
	assert.Empty(t, resp.ToolUsed)
	assert.Zero(t, m.respondCalls)
}

func TestInvalidSelectionJSON(t *testing.T) {
	for name, m := range map[string]*scriptedModel{
		"not json":    {selection: "I think you want the calendar tool."},
		"model error": {selectErr: errors.New("503 from provider")},
	} {
		t.Run(name, func(t *testing.T) {
			resp := newHarness(t, m).pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "What's on my calendar today?"})
			assert.False(t, resp.Success)
			assert.Equal(t, NotSureMessage, resp.NaturalResponse)
			assert.NotContains(t, resp.NaturalResponse, "503")
			assert.Equal(t, entity.StateError, resp.State)
		})
	}
}

func TestChainingFallbackKeepsPrimaryResult(t *testing.T) {
	m := &scriptedModel{
		selection: `{"tool":"web_search","confidence":80,"parameters":{"query":"tidal power"}}`,
		respond:   func(string, string) (string, error) { return "Tidal power is growing.", nil },
	}
	h := newHarness(t, m)
	results := searchResults("tidal power", "https://down-1.example", "https://down-2.example")
	crawler := &crawlTool{}
	h.replaceWebTools(results, crawler)

	resp := h.pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "explain tidal power"})

	require.True(t, resp.Success)
	assert.Equal(t, 2, crawler.Calls())
	assert.Nil(t, resp.ChainedTools)
	assert.Same(t, results, resp.RawData)
	assert.Equal(t, "Tidal power is growing.", resp.NaturalResponse)
	assert.Equal(t, entity.StateDone, resp.State)
}

func TestUnknownToolIsGraceful(t *testing.T) {
	m := &scriptedModel{selection: `{"tool":"teleport","confidence":70,"parameters":{"to":"Mars"}}`}
	resp := newHarness(t, m).pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "beam me to Mars"})

	assert.False(t, resp.Success)
	assert.Equal(t, "Tool 'teleport' not found", resp.Error)
	assert.Contains(t, resp.NaturalResponse, "couldn't retrieve the information")
	assert.Equal(t, "teleport", resp.ToolUsed)
	assert.Zero(t, m.respondCalls)
}

func TestDirectAnswer(t *testing.T) {
	m := &scriptedModel{selection: `{"tool":null,"confidence":99,"geminiOutput":"Hello! How can I help today?","canUseGemini":true}`}
	resp := newHarness(t, m).pipeline.ProcessQuery(context.Background(), Request{
		UserID: "alice", Query: "hi there", Preferences: entity.RequestPreferences{IncludeActions: true},
	})

	require.True(t, resp.Success)
	assert.Equal(t, entity.StateDone, resp.State)
	assert.Equal(t, "Hello! How can I help today?", resp.NaturalResponse)
	assert.Empty(t, resp.ToolUsed)
	assert.Equal(t, []string{"Ask a follow-up question"}, resp.SuggestedActions)
	assert.Zero(t, m.respondCalls)
}

func TestEmptyQuery(t *testing.T) {
	m := &scriptedModel{}
	resp := newHarness(t, m).pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "   "})
	assert.False(t, resp.Success)
	assert.Equal(t, EmptyQueryMessage, resp.NaturalResponse)
	assert.Zero(t, m.selectCalls)
}

func TestPanicBecomesError(t *testing.T) {
	m := &scriptedModel{
		selection: calendarSelection,
		respond:   func(string, string) (string, error) { panic("model client bug") },
	}
	resp := newHarness(t, m).pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "What's on my calendar today?"})

	assert.False(t, resp.Success)
	assert.Equal(t, entity.StateError, resp.State)
	assert.Equal(t, ErrorMessage, resp.NaturalResponse)
	assert.NotContains(t, resp.NaturalResponse, "model client bug")
}

func TestVoiceCleanup(t *testing.T) {
	m := &scriptedModel{
		selection: calendarSelection,
		respond:   func(string, string) (string, error) { return "You have **two** events:\n- Standup\n- Design review", nil },
	}
	resp := newHarness(t, m).pipeline.ProcessQuery(context.Background(), Request{
		UserID: "alice", Query: "What's on my calendar today?",
		Preferences: entity.RequestPreferences{IsVoiceMode: true, CleanForSpeech: true},
	})

	require.True(t, resp.Success)
	assert.Equal(t, "You have two events:\nStandup\nDesign review", resp.NaturalResponse)
	assert.Equal(t, "You have **two** events:\n- Standup\n- Design review", resp.OriginalResponse)
	assert.Contains(t, m.lastSystem, "read aloud")
}

func TestPreferenceFailureDoesNotBlock(t *testing.T) {
	m := &scriptedModel{selection: calendarSelection}
	h := newHarness(t, m, withPreferences(&fakePrefs{err: errors.New("preferences db locked")}))

	resp := h.pipeline.ProcessQuery(context.Background(), Request{UserID: "alice", Query: "What's on my calendar today?"})
	require.True(t, resp.Success)
	assert.Equal(t, "Here is what I found.", resp.NaturalResponse)
}

func TestSessionPersistenceAndHistory(t *testing.T) {
	ctx := context.Background()
	sessions := sessService.NewSessionService(sessInmemory.NewSessionStore())
	m := &scriptedModel{selection: calendarSelection}
	h := newHarness(t, m, withSessions(sessions))

	first := h.pipeline.ProcessQuery(ctx, Request{UserID: "alice", Query: "What's on my calendar today?"})
	h.pipeline.Wait()
	require.True(t, first.Success)
	require.NotEmpty(t, first.SessionID)

	session, err := sessions.GetSession(ctx, "alice", first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "What's on my calendar today?", session.Title)

	msgs, err := sessions.RecentMessages(ctx, "alice", first.SessionID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, sessEntity.RoleUser, msgs[0].Role)
	assert.Equal(t, sessEntity.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Here is what I found.", msgs[1].Content)
	assert.Equal(t, builtin.GetCalendarEvents, msgs[1].Metadata["toolUsed"])

	calls, err := sessions.RecentToolCalls(ctx, "alice", first.SessionID, 10)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Success)

	// A follow-up in the same session sees the earlier turn.
	second := h.pipeline.ProcessQuery(ctx, Request{UserID: "alice", Query: "and tomorrow?", SessionID: first.SessionID})
	h.pipeline.Wait()
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, m.lastSelectUser, "user: What's on my calendar today?")
	assert.Contains(t, m.lastSelectUser, "# Recent tool usage (oldest first)\n- get_calendar_events")

	// Another user's session id is not reused.
	third := h.pipeline.ProcessQuery(ctx, Request{UserID: "bob", Query: "hello", SessionID: first.SessionID})
	h.pipeline.Wait()
	assert.NotEqual(t, first.SessionID, third.SessionID)
	assert.NotContains(t, m.lastSelectUser, "Recent conversation")
}
