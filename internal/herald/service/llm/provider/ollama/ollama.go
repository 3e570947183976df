package ollama

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/options"
)

const (
	Name = "ollama"

	defaultBaseURL = "http://127.0.0.1:11434"
)

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
	conf := &einoOllama.ChatModelConfig{
		BaseURL: defaultBaseURL,
		Model:   instance.Ref.ModelID,
		Options: &einoOllama.Options{},
		Thinking: &einoOllama.ThinkValue{
			Value: gptr.Of(instance.Reasoning),
		},
	}
	if instance.BaseURL != "" {
		conf.BaseURL = instance.BaseURL
	}

	if params != nil {
		if params.Temperature != nil {
			conf.Options.Temperature = *params.Temperature
		}
		if params.TopP != nil {
			conf.Options.TopP = *params.TopP
		}
		if params.TopK != nil {
			conf.Options.TopK = int(*params.TopK)
		}
		if params.EnableThinking != nil {
			conf.Thinking = &einoOllama.ThinkValue{Value: params.EnableThinking}
		}
	}

	return einoOllama.NewChatModel(ctx, conf)
}

// DefaultConfig lists no models: local installs vary, so they come from config.
func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: defaultBaseURL,
		Models:  []options.ModelDefinition{},
	}
}
