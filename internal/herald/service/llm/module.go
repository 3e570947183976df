package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider"
	"github.com/kiosk404/herald/internal/pkg/options"
	"github.com/kiosk404/herald/pkg/logger"
)

// Config holds the configuration for the LLM module.
type Config struct {
	ModelOptions *options.ModelOptions
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.ModelOptions == nil {
		c.ModelOptions = options.NewModelOptions()
	}
	return CompletedConfig{c}
}

// Module exposes the model manager and the provider registry behind it.
type Module struct {
	Manager  service.ModelManager
	Registry *provider.Registry
}

func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	logger.Info("[LLM] creating LLM module...")

	registry := provider.NewInTreeRegistry()
	logger.Info("[LLM] provider registry initialized with %d plugins", registry.Len())

	manager := service.NewModelManager(c.ModelOptions, registry)
	if err := manager.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize LLM module: %w", err)
	}

	return &Module{
		Manager:  manager,
		Registry: registry,
	}, nil
}

// DefaultChatModel returns the chat model for the configured default.
func (m *Module) DefaultChatModel(ctx context.Context) (model.BaseChatModel, error) {
	return m.Manager.GetDefaultChatModel(ctx)
}

// BuildChatModel builds a fresh model with params; nil params keeps provider defaults.
func (m *Module) BuildChatModel(ctx context.Context, ref entity.ModelRef, params *entity.LLMParams) (model.BaseChatModel, error) {
	return m.Manager.BuildChatModel(ctx, ref, params)
}
