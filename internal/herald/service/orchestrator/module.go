package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/kiosk404/herald/pkg/logger"
)

// ModuleConfig holds the configuration for the Orchestrator module.
type ModuleConfig struct {
	HistoryLimit      int           `json:"history_limit,omitempty"`
	AutoCreateSession bool          `json:"auto_create_session,omitempty"`
	SelectTimeout     time.Duration `json:"select_timeout,omitempty"`
	GenerateTimeout   time.Duration `json:"generate_timeout,omitempty"`
	StoreTimeout      time.Duration `json:"store_timeout,omitempty"`
}

type CompletedConfig struct {
	*ModuleConfig
}

func (c *ModuleConfig) Complete() CompletedConfig {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 10
	}
	if c.SelectTimeout <= 0 {
		c.SelectTimeout = 30 * time.Second
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 60 * time.Second
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
	return CompletedConfig{c}
}

type Module struct {
	Pipeline *Pipeline
}

// Close waits for in-flight session writes.
func (m *Module) Close() error {
	m.Pipeline.Wait()
	return nil
}

func (c CompletedConfig) New(_ context.Context, deps Dependencies) (*Module, error) {
	logger.Info("[Orchestrator] creating Orchestrator module...")
	if deps.ChatModel == nil {
		return nil, fmt.Errorf("orchestrator needs a chat model")
	}
	if deps.Tools == nil || deps.Catalog == nil {
		return nil, fmt.Errorf("orchestrator needs a tool executor and catalog")
	}

	p := NewPipeline(deps, Config{
		HistoryLimit:      c.HistoryLimit,
		AutoCreateSession: c.AutoCreateSession,
		SelectTimeout:     c.SelectTimeout,
		GenerateTimeout:   c.GenerateTimeout,
		StoreTimeout:      c.StoreTimeout,
	})
	logger.Info("[Orchestrator] pipeline ready (history %d, sessions %t, preferences %t)",
		c.HistoryLimit, deps.Sessions != nil, deps.Preferences != nil)
	return &Module{Pipeline: p}, nil
}
