package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/tools/cache"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/pkg/metrics"
	"github.com/kiosk404/herald/pkg/logger"
)

type ExecutorConfig struct {
	// Timeout bounds each tool invocation.
	Timeout time.Duration
	// StrictParams rejects parameters a tool does not declare.
	StrictParams bool
	// CacheWriteTools also caches tools whose DataAccess is "write".
	CacheWriteTools bool
	// Uncached names tools that always execute, such as clocks.
	Uncached []string
}

// Stats counts executor activity since startup.
type Stats struct {
	Executions int64 `json:"executions"`
	CacheHits  int64 `json:"cacheHits"`
	Failures   int64 `json:"failures"`
}

// Executor runs registered tools and wraps every outcome in a ToolResult.
// It never returns an error or panics to its caller.
type Executor struct {
	registry *Registry
	cache    cache.Cache
	cfg      ExecutorConfig
	now      func() time.Time

	executions atomic.Int64
	hits       atomic.Int64
	failures   atomic.Int64
}

// NewExecutor creates an executor. c may be nil to disable caching.
func NewExecutor(registry *Registry, c cache.Cache, cfg ExecutorConfig) *Executor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Executor{
		registry: registry,
		cache:    c,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetClock overrides time.Now for result timestamps.
func (e *Executor) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Executor) Stats() Stats {
	return Stats{
		Executions: e.executions.Load(),
		CacheHits:  e.hits.Load(),
		Failures:   e.failures.Load(),
	}
}

func (e *Executor) Execute(ctx context.Context, toolName, userID string, params map[string]any) *entity.ToolResult {
	tool, ok := e.registry.GetTool(toolName)
	meta, _ := e.registry.GetMetadata(toolName)
	if !ok || meta == nil {
		logger.Warn("[ToolExecutor] tool %s not found", toolName)
		metrics.ToolExecutions.WithLabelValues(toolName, "not_found").Inc()
		e.failures.Add(1)
		return entity.Failure(toolName, fmt.Sprintf("Tool '%s' not found", toolName), e.now())
	}

	validated, err := ValidateParams(meta, params, e.cfg.StrictParams)
	if err != nil {
		logger.Warn("[ToolExecutor] tool %s rejected parameters: %v", toolName, err)
		metrics.ToolExecutions.WithLabelValues(toolName, "invalid").Inc()
		e.failures.Add(1)
		return entity.Failure(toolName, err.Error(), e.now())
	}

	cacheable := e.cacheable(meta)
	key := cache.Key(toolName, userID, entity.LocationFrom(ctx).String(), validated)
	if cacheable {
		if cached, err := e.cache.Get(ctx, key); err == nil {
			e.hits.Add(1)
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			logger.Info("[ToolExecutor] cache hit for %s (user %s)", toolName, userID)
			cached.Cached = true
			return cached
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	logger.Info("[ToolExecutor] executing %s for user %s", toolName, userID)
	e.executions.Add(1)
	start := time.Now()
	data, err := e.invoke(ctx, toolName, tool, userID, validated)
	metrics.ToolDuration.WithLabelValues(toolName).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Warn("[ToolExecutor] tool %s failed: %v", toolName, err)
		metrics.ToolExecutions.WithLabelValues(toolName, "error").Inc()
		e.failures.Add(1)
		return entity.Failure(toolName, err.Error(), e.now())
	}

	metrics.ToolExecutions.WithLabelValues(toolName, "success").Inc()
	result := &entity.ToolResult{
		Success:   true,
		Data:      data,
		Tool:      toolName,
		Timestamp: e.now(),
	}
	if cacheable {
		if err := e.cache.Set(ctx, key, result); err != nil {
			logger.Warn("[ToolExecutor] failed to cache %s result: %v", toolName, err)
		}
	}
	return result
}

func (e *Executor) cacheable(meta *entity.ToolMetadata) bool {
	if e.cache == nil {
		return false
	}
	if meta.DataAccess == entity.AccessWrite && !e.cfg.CacheWriteTools {
		return false
	}
	for _, name := range e.cfg.Uncached {
		if name == meta.Name {
			return false
		}
	}
	return true
}

type invokeResult struct {
	data any
	err  error
}

// invoke runs the tool under the configured timeout. A tool that ignores
// its context is abandoned when the deadline passes.
func (e *Executor) invoke(ctx context.Context, name string, tool entity.Tool, userID string, params map[string]any) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	done := make(chan invokeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("[ToolExecutor] tool %s panicked: %v", name, r)
				done <- invokeResult{err: fmt.Errorf("tool %s panicked: %v", name, r)}
			}
		}()
		data, err := tool.Invoke(ctx, userID, params)
		done <- invokeResult{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("tool %s: %w", name, ctx.Err())
	}
}
