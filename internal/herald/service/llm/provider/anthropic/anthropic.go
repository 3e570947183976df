package anthropic

import (
	"context"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/options"
)

const Name = "anthropic"

var _ spi.ChatModelPlugin = (*Plugin)(nil)

type Plugin struct {
	helper.BasePlugin
}

func New() spi.ChatModelPlugin {
	return &Plugin{
		BasePlugin: helper.BasePlugin{PluginName: Name},
	}
}

func (p *Plugin) BuildChatModel(ctx context.Context, instance *entity.ModelInstance, params *entity.LLMParams) (model.BaseChatModel, error) {
	maxTokens := 4096
	if instance.MaxTokens > 0 {
		maxTokens = instance.MaxTokens
	}

	cfg := &einoClaude.Config{
		APIKey:    instance.APIKey,
		Model:     instance.Ref.ModelID,
		MaxTokens: maxTokens,
	}
	if instance.BaseURL != "" {
		baseURL := instance.BaseURL
		cfg.BaseURL = &baseURL
	}

	if params != nil {
		cfg.Temperature = params.Temperature
		cfg.TopP = params.TopP
		if params.MaxTokens != 0 {
			cfg.MaxTokens = params.MaxTokens
		}
	}

	return einoClaude.NewChatModel(ctx, cfg)
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		APIKey: "${ANTHROPIC_API_KEY}",
		Models: []options.ModelDefinition{
			{ID: "claude-sonnet-4-5", Name: "Claude Sonnet 4.5", Reasoning: true, ContextWindow: 200000, MaxTokens: 8192},
			{ID: "claude-haiku-4-5", Name: "Claude Haiku 4.5", ContextWindow: 200000, MaxTokens: 8192},
		},
	}
}
