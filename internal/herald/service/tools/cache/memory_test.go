package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKeyIsOrderIndependent(t *testing.T) {
	a := Key("web_search", "u1", "UTC", map[string]any{"query": "go", "limit": 3})
	b := Key("web_search", "u1", "UTC", map[string]any{"limit": 3, "query": "go"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Key("web_search", "u2", "UTC", map[string]any{"limit": 3, "query": "go"}))
	assert.NotEqual(t, a, Key("web_search", "u1", "Asia/Tokyo", map[string]any{"limit": 3, "query": "go"}))
	assert.Equal(t, "get_current_time:u1:UTC:{}", Key("get_current_time", "u1", "UTC", nil))
}

func TestMemoryCache_GetSet(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(5*time.Minute, 100, WithClock(clock.Now))
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.Error(t, err)

	require.NoError(t, c.Set(ctx, "k", &entity.ToolResult{Success: true, Data: "v", Tool: "t"}))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Data)

	got.Data = "mutated"
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", again.Data)

	clock.Advance(5 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryCache_LazySweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Minute, 3, WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("old-%d", i), &entity.ToolResult{Success: true}))
	}
	clock.Advance(2 * time.Minute)

	// Stale entries stay until the size threshold is crossed.
	assert.Equal(t, 3, c.Len())

	require.NoError(t, c.Set(ctx, "fresh", &entity.ToolResult{Success: true}))
	assert.Equal(t, 1, c.Len())

	_, err := c.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	c := NewMemoryCache(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, c.Set(ctx, "k", &entity.ToolResult{}))
	_, err := c.Get(ctx, "k")
	assert.Error(t, err)
}
