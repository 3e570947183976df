package deepseek

import (
	"context"

	einoDeepseek "github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/options"
)

const Name = "deepseek"

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
	conf := &einoDeepseek.ChatModelConfig{
		APIKey:             instance.APIKey,
		Model:              instance.Ref.ModelID,
		Temperature:        0.7,
		MaxTokens:          instance.MaxTokens,
		ResponseFormatType: einoDeepseek.ResponseFormatTypeText,
	}
	if instance.BaseURL != "" {
		conf.BaseURL = instance.BaseURL
	}

	if params != nil {
		if params.Temperature != nil {
			conf.Temperature = *params.Temperature
		}
		if params.MaxTokens != 0 {
			conf.MaxTokens = params.MaxTokens
		}
		if params.ResponseFormat == entity.ModelResponseFormatJSON {
			conf.ResponseFormatType = einoDeepseek.ResponseFormatTypeJSONObject
		}
	}

	return einoDeepseek.NewChatModel(ctx, conf)
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: "https://api.deepseek.com/v1",
		APIKey:  "${DEEPSEEK_API_KEY}",
		Models: []options.ModelDefinition{
			{ID: "deepseek-chat", Name: "DeepSeek V3", ContextWindow: 131072, MaxTokens: 8192},
		},
	}
}
