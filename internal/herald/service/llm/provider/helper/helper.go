package helper

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
)

// BasePlugin carries the provider name for embedding plugins.
type BasePlugin struct {
	PluginName string
}

func (b *BasePlugin) Name() string {
	return b.PluginName
}

// ResolveEnvValue resolves "${ENV_VAR}" references in a string.
func ResolveEnvValue(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}

// NewOpenAICompatibleChatModel creates an Eino ChatModel against an
// OpenAI-compatible endpoint.
func NewOpenAICompatibleChatModel(ctx context.Context, instance *entity.ModelInstance, params *entity.LLMParams) (model.BaseChatModel, error) {
	if instance.Ref.ModelID == "" {
		return nil, fmt.Errorf("model %s has no model id", instance.Ref)
	}

	maxTokens := 4096
	if instance.MaxTokens > 0 {
		maxTokens = instance.MaxTokens
	}

	cfg := &einoOpenAI.ChatModelConfig{
		Model:     instance.Ref.ModelID,
		APIKey:    instance.APIKey,
		MaxTokens: gptr.Of(maxTokens),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{
			Type: einoOpenAI.ChatCompletionResponseFormatTypeText,
		},
	}
	if instance.BaseURL != "" {
		cfg.BaseURL = instance.BaseURL
	}

	if params != nil {
		cfg.Temperature = params.Temperature
		cfg.TopP = params.TopP
		if params.MaxTokens != 0 {
			cfg.MaxTokens = gptr.Of(params.MaxTokens)
		}
		if params.ResponseFormat == entity.ModelResponseFormatJSON {
			cfg.ResponseFormat = &einoOpenAI.ChatCompletionResponseFormat{
				Type: einoOpenAI.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
	}

	return einoOpenAI.NewChatModel(ctx, cfg)
}
