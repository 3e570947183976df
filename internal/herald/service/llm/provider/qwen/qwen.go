package qwen

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	einoQwen "github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/options"
)

const Name = "qwen"

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
	conf := &einoQwen.ChatModelConfig{
		APIKey:      instance.APIKey,
		Model:       instance.Ref.ModelID,
		BaseURL:     instance.BaseURL,
		Temperature: gptr.Of(float32(0.7)),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{
			Type: einoOpenAI.ChatCompletionResponseFormatTypeText,
		},
		EnableThinking: gptr.Of(instance.Reasoning),
	}

	if params != nil {
		conf.TopP = params.TopP
		if params.Temperature != nil {
			conf.Temperature = gptr.Of(*params.Temperature)
		}
		if params.MaxTokens != 0 {
			conf.MaxTokens = gptr.Of(params.MaxTokens)
		}
		if params.EnableThinking != nil {
			conf.EnableThinking = params.EnableThinking
		}
		if params.ResponseFormat == entity.ModelResponseFormatJSON {
			conf.ResponseFormat = &einoOpenAI.ChatCompletionResponseFormat{
				Type: einoOpenAI.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
	}

	return einoQwen.NewChatModel(ctx, conf)
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		APIKey:  "${DASHSCOPE_API_KEY}",
		Models: []options.ModelDefinition{
			{ID: "qwen-plus", Name: "Qwen Plus", ContextWindow: 131072, MaxTokens: 8192},
			{ID: "qwen-turbo", Name: "Qwen Turbo", ContextWindow: 131072, MaxTokens: 8192},
		},
	}
}
