package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

var _ Cache = (*MemoryCache)(nil)

type memoryItem struct {
	result   *entity.ToolResult
	storedAt time.Time
}

// MemoryCache is a mutex-guarded map with a fixed TTL. There is no background
// cleanup: once the map grows past maxEntries, the next Set sweeps stale items.
type MemoryCache struct {
	mu         sync.RWMutex
	store      map[string]memoryItem
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type MemoryOption func(*MemoryCache)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(ttl time.Duration, maxEntries int, opts ...MemoryOption) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &MemoryCache{
		store:      make(map[string]memoryItem),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*entity.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errbuilder.WrapIfContextDone(ctx, err)
	}

	c.mu.RLock()
	item, found := c.store[key]
	c.mu.RUnlock()

	if !found {
		return nil, errbuilder.NotFoundErr(errbuilder.GenericErr("cache item not found", nil))
	}
	if c.now().Sub(item.storedAt) >= c.ttl {
		return nil, errbuilder.NotFoundErr(errbuilder.GenericErr("cache item expired", nil))
	}

	cp := *item.result
	return &cp, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, result *entity.ToolResult) error {
	if err := ctx.Err(); err != nil {
		return errbuilder.WrapIfContextDone(ctx, err)
	}

	cp := *result
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = memoryItem{result: &cp, storedAt: c.now()}
	if len(c.store) > c.maxEntries {
		c.sweepLocked()
	}
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *MemoryCache) sweepLocked() {
	now := c.now()
	removed := 0
	for key, item := range c.store {
		if now.Sub(item.storedAt) >= c.ttl {
			delete(c.store, key)
			removed++
		}
	}
	if removed > 0 {
		logger.Debug("[ToolCache] swept %d stale entries, %d remain", removed, len(c.store))
	}
}
