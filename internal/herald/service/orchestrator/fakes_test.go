package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	prefEntity "github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
)

var fixedNow = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// scriptedModel answers selection prompts with selection and everything else
// through respond.
type scriptedModel struct {
	mu        sync.Mutex
	selection string
	selectErr error
	respond   func(system, user string) (string, error)

	selectCalls    int
	respondCalls   int
	lastSelectUser string
	lastSystem     string
	lastUser       string
}

func (m *scriptedModel) Generate(_ context.Context, msgs []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	system, user := msgs[0].Content, msgs[len(msgs)-1].Content
	if system == selectionSystemPrompt {
		m.selectCalls++
		m.lastSelectUser = user
		if m.selectErr != nil {
			return nil, m.selectErr
		}
		return &schema.Message{Role: schema.Assistant, Content: m.selection}, nil
	}

	m.respondCalls++
	m.lastSystem, m.lastUser = system, user
	if m.respond == nil {
		return &schema.Message{Role: schema.Assistant, Content: "Here is what I found."}, nil
	}
	out, err := m.respond(system, user)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: out}, nil
}

func (m *scriptedModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type fakePrefs struct {
	prefs *prefEntity.Preferences
	err   error
}

func (f *fakePrefs) GetPreferences(context.Context, string) (*prefEntity.Preferences, error) {
	return f.prefs, f.err
}

// crawlTool serves pages for known URLs and fails for the rest.
type crawlTool struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (c *crawlTool) Invoke(_ context.Context, _ string, params map[string]any) (any, error) {
	u, _ := params["url"].(string)
	c.mu.Lock()
	c.calls = append(c.calls, u)
	c.mu.Unlock()
	title, ok := c.pages[u]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return &toolEntity.CrawledPage{URL: u, Title: title, Content: "About " + strings.ToLower(title)}, nil
}

func (c *crawlTool) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func searchResults(query string, urls ...string) *toolEntity.SearchResults {
	out := &toolEntity.SearchResults{Query: query}
	for i, u := range urls {
		out.Results = append(out.Results, toolEntity.SearchHit{
			Title: "Result " + string(rune('A'+i)),
			URL:   u,
		})
	}
	return out
}

func meta(name string, cat toolEntity.Category, access toolEntity.DataAccess, params ...toolEntity.ParameterSpec) *toolEntity.ToolMetadata {
	return &toolEntity.ToolMetadata{
		Name:        name,
		Description: "test tool " + name,
		Category:    cat,
		Parameters:  params,
		TimeContext: toolEntity.TimeAny,
		DataAccess:  access,
	}
}

func newExecutor(r *service.Registry) *service.Executor {
	e := service.NewExecutor(r, nil, service.ExecutorConfig{Timeout: 5 * time.Second})
	e.SetClock(fixedClock)
	return e
}
