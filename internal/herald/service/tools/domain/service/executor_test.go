package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/tools/cache"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

type countingTool struct {
	calls atomic.Int64
}

func (c *countingTool) Invoke(_ context.Context, _ string, params map[string]any) (any, error) {
	n := c.calls.Add(1)
	return map[string]any{"call": n, "query": params["query"]}, nil
}

func newTestExecutor(t *testing.T, cfg ExecutorConfig) (*Executor, *Registry, *countingTool, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	counter := &countingTool{}

	r := NewRegistry()
	r.Register("search", counter, &entity.ToolMetadata{
		Category:   entity.CategorySearch,
		DataAccess: entity.AccessRead,
		Parameters: []entity.ParameterSpec{
			{Name: "query", Type: entity.ParamString, Required: true},
			{Name: "limit", Type: entity.ParamNumber},
		},
	})

	c := cache.NewMemoryCache(5*time.Minute, 100, cache.WithClock(clock.Now))
	e := NewExecutor(r, c, cfg)
	e.SetClock(clock.Now)
	return e, r, counter, clock
}

func TestExecutor_UnknownTool(t *testing.T) {
	e, _, _, _ := newTestExecutor(t, ExecutorConfig{})

	res := e.Execute(context.Background(), "teleport", "u1", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Tool 'teleport' not found", res.Error)
	assert.False(t, res.Timestamp.IsZero())
}

func TestExecutor_CacheIdempotence(t *testing.T) {
	e, _, counter, _ := newTestExecutor(t, ExecutorConfig{})
	ctx := context.Background()
	params := map[string]any{"query": "fusion", "limit": 3}

	first := e.Execute(ctx, "search", "u1", params)
	second := e.Execute(ctx, "search", "u1", map[string]any{"limit": 3, "query": "fusion"})

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, int64(1), counter.calls.Load())
	assert.Equal(t, first.Data, second.Data)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, int64(1), e.Stats().CacheHits)

	e.Execute(ctx, "search", "u2", params)
	assert.Equal(t, int64(2), counter.calls.Load())
}

func TestExecutor_CacheExpiry(t *testing.T) {
	e, _, counter, clock := newTestExecutor(t, ExecutorConfig{})
	ctx := context.Background()
	params := map[string]any{"query": "fusion"}

	e.Execute(ctx, "search", "u1", params)
	clock.t = clock.t.Add(5*time.Minute + time.Second)
	res := e.Execute(ctx, "search", "u1", params)

	assert.True(t, res.Success)
	assert.False(t, res.Cached)
	assert.Equal(t, int64(2), counter.calls.Load())
}

func TestExecutor_WriteToolsBypassCache(t *testing.T) {
	e, r, _, _ := newTestExecutor(t, ExecutorConfig{})
	writer := &countingTool{}
	r.Register("create_calendar_event", writer, &entity.ToolMetadata{
		Category:   entity.CategoryCalendar,
		DataAccess: entity.AccessWrite,
	})

	ctx := context.Background()
	e.Execute(ctx, "create_calendar_event", "u1", map[string]any{"title": "x"})
	res := e.Execute(ctx, "create_calendar_event", "u1", map[string]any{"title": "x"})
	assert.False(t, res.Cached)
	assert.Equal(t, int64(2), writer.calls.Load())
}

func TestExecutor_WriteToolsCachedWhenEnabled(t *testing.T) {
	e, r, _, _ := newTestExecutor(t, ExecutorConfig{CacheWriteTools: true})
	writer := &countingTool{}
	r.Register("create_calendar_event", writer, &entity.ToolMetadata{DataAccess: entity.AccessWrite})

	ctx := context.Background()
	e.Execute(ctx, "create_calendar_event", "u1", nil)
	res := e.Execute(ctx, "create_calendar_event", "u1", nil)
	assert.True(t, res.Cached)
	assert.Equal(t, int64(1), writer.calls.Load())
}

func TestExecutor_ToolErrorAndPanic(t *testing.T) {
	e, r, _, _ := newTestExecutor(t, ExecutorConfig{})
	r.Register("broken", entity.ToolFunc(func(context.Context, string, map[string]any) (any, error) {
		return nil, errors.New("backend unavailable")
	}), &entity.ToolMetadata{})
	r.Register("explodes", entity.ToolFunc(func(context.Context, string, map[string]any) (any, error) {
		panic("boom")
	}), &entity.ToolMetadata{})

	res := e.Execute(context.Background(), "broken", "u1", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "backend unavailable", res.Error)

	res = e.Execute(context.Background(), "explodes", "u1", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "boom")

	// Failures are never cached.
	res = e.Execute(context.Background(), "broken", "u1", nil)
	assert.False(t, res.Cached)
}

func TestExecutor_Timeout(t *testing.T) {
	e, r, _, _ := newTestExecutor(t, ExecutorConfig{Timeout: 20 * time.Millisecond})
	r.Register("slow", entity.ToolFunc(func(ctx context.Context, _ string, _ map[string]any) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), &entity.ToolMetadata{})

	res := e.Execute(context.Background(), "slow", "u1", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "deadline exceeded")
}

func TestExecutor_ParameterValidation(t *testing.T) {
	e, _, counter, _ := newTestExecutor(t, ExecutorConfig{})
	ctx := context.Background()

	res := e.Execute(ctx, "search", "u1", map[string]any{"limit": 3})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, `missing required parameter "query"`)

	res = e.Execute(ctx, "search", "u1", map[string]any{"query": "go", "limit": "many"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, `"limit" must be number`)

	res = e.Execute(ctx, "search", "u1", map[string]any{"query": "go", "limit": "5", "extra": true})
	assert.True(t, res.Success)
	assert.Equal(t, int64(1), counter.calls.Load())
}

func TestExecutor_StrictParams(t *testing.T) {
	e, _, _, _ := newTestExecutor(t, ExecutorConfig{StrictParams: true})

	res := e.Execute(context.Background(), "search", "u1", map[string]any{"query": "go", "extra": true})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, `unknown parameter "extra"`)
}

func TestExecutor_UncachedTools(t *testing.T) {
	e, _, counter, _ := newTestExecutor(t, ExecutorConfig{Uncached: []string{"search"}})
	ctx := context.Background()

	e.Execute(ctx, "search", "u1", map[string]any{"query": "x"})
	res := e.Execute(ctx, "search", "u1", map[string]any{"query": "x"})
	assert.False(t, res.Cached)
	assert.Equal(t, int64(2), counter.calls.Load())
}

func TestExecutor_UncachedClockStaysFresh(t *testing.T) {
	e, r, _, clock := newTestExecutor(t, ExecutorConfig{Uncached: []string{"get_current_time"}})
	r.Register("get_current_time", entity.ToolFunc(func(context.Context, string, map[string]any) (any, error) {
		return clock.Now().Format("15:04"), nil
	}), &entity.ToolMetadata{TimeContext: entity.TimeRealtime, DataAccess: entity.AccessRead})
	ctx := context.Background()

	first := e.Execute(ctx, "get_current_time", "u1", nil)
	clock.t = clock.t.Add(4 * time.Minute)
	second := e.Execute(ctx, "get_current_time", "u1", nil)

	assert.Equal(t, "09:00", first.Data)
	assert.Equal(t, "09:04", second.Data)
	assert.False(t, second.Cached)
}

func TestExecutor_CacheKeyIncludesTimezone(t *testing.T) {
	e, r, _, _ := newTestExecutor(t, ExecutorConfig{})
	var calls atomic.Int64
	r.Register("get_calendar_events", entity.ToolFunc(func(ctx context.Context, _ string, _ map[string]any) (any, error) {
		calls.Add(1)
		return entity.LocationFrom(ctx).String(), nil
	}), &entity.ToolMetadata{Category: entity.CategoryCalendar, DataAccess: entity.AccessRead})

	params := map[string]any{"date": "today"}
	tokyo := entity.WithLocation(context.Background(), time.FixedZone("Asia/Tokyo", 9*3600))
	newYork := entity.WithLocation(context.Background(), time.FixedZone("America/New_York", -5*3600))

	first := e.Execute(tokyo, "get_calendar_events", "u1", params)
	second := e.Execute(newYork, "get_calendar_events", "u1", params)
	again := e.Execute(tokyo, "get_calendar_events", "u1", params)

	assert.Equal(t, "Asia/Tokyo", first.Data)
	assert.Equal(t, "America/New_York", second.Data)
	assert.False(t, second.Cached)
	assert.True(t, again.Cached)
	assert.Equal(t, "Asia/Tokyo", again.Data)
	assert.Equal(t, int64(2), calls.Load())
}
