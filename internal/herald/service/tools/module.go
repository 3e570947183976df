package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	"github.com/kiosk404/herald/internal/herald/service/tools/cache"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/repo"
	"github.com/kiosk404/herald/pkg/logger"
)

// Config holds the configuration for the Tools module.
type Config struct {
	// CacheBackend is "memory", "redis" or "none".
	CacheBackend    string
	CacheTTL        time.Duration
	CacheMaxEntries int
	Redis           cache.RedisConfig

	// CacheWriteTools also caches results of write tools.
	CacheWriteTools bool
	// Uncached defaults to the clock tool.
	Uncached []string

	ExecTimeout  time.Duration
	StrictParams bool

	SearchEndpoint string
	CrawlTimeout   time.Duration
	MaxPageChars   int

	// Now overrides time.Now for the built-in tools and the memory cache.
	Now func() time.Time
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.CacheBackend == "" {
		c.CacheBackend = "memory"
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = cache.DefaultTTL
	}
	if c.CacheMaxEntries <= 0 {
		c.CacheMaxEntries = cache.DefaultMaxEntries
	}
	if c.ExecTimeout <= 0 {
		c.ExecTimeout = 30 * time.Second
	}
	if c.CrawlTimeout <= 0 {
		c.CrawlTimeout = 15 * time.Second
	}
	if c.Uncached == nil {
		c.Uncached = []string{builtin.GetCurrentTime}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return CompletedConfig{c}
}

// Dependencies are the backends the built-in tools need. Both may be nil.
type Dependencies struct {
	Workspace repo.WorkspaceRepository
	ChatModel model.BaseChatModel
}

type Module struct {
	Registry *service.Registry
	Executor *service.Executor
	Cache    cache.Cache
	closer   func() error
}

func (m *Module) Close() error {
	if m.closer != nil {
		return m.closer()
	}
	return nil
}

func (c CompletedConfig) New(_ context.Context, deps Dependencies) (*Module, error) {
	logger.Info("[Tools] creating Tools module...")

	m := &Module{Registry: service.NewRegistry()}

	switch c.CacheBackend {
	case "redis":
		rc, err := cache.NewRedisCache(c.Redis, c.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect tool cache: %w", err)
		}
		m.Cache, m.closer = rc, rc.Close
		logger.Info("[Tools] using redis result cache at %s", c.Redis.Addr)
	case "none":
		logger.Info("[Tools] result cache disabled")
	default:
		m.Cache = cache.NewMemoryCache(c.CacheTTL, c.CacheMaxEntries, cache.WithClock(c.Now))
		logger.Info("[Tools] using in-memory result cache (ttl %s, sweep above %d entries)", c.CacheTTL, c.CacheMaxEntries)
	}

	builtin.Register(m.Registry, builtin.Deps{
		Workspace:      deps.Workspace,
		ChatModel:      deps.ChatModel,
		SearchEndpoint: c.SearchEndpoint,
		HTTPClient:     &http.Client{Timeout: c.CrawlTimeout},
		MaxPageChars:   c.MaxPageChars,
		Now:            c.Now,
	})

	m.Executor = service.NewExecutor(m.Registry, m.Cache, service.ExecutorConfig{
		Timeout:         c.ExecTimeout,
		StrictParams:    c.StrictParams,
		CacheWriteTools: c.CacheWriteTools,
		Uncached:        c.Uncached,
	})
	m.Executor.SetClock(c.Now)
	return m, nil
}
