package gemini

import (
	"context"
	"fmt"

	einoGemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/options"
	"google.golang.org/genai"
)

const (
	Name = "gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com/"
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

// NewClient builds a Gemini API client. Shared with the speech provider.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: defaultBaseURL,
		},
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	return genai.NewClient(ctx, cfg)
}

func (p *Plugin) BuildChatModel(ctx context.Context, instance *entity.ModelInstance, params *entity.LLMParams) (model.BaseChatModel, error) {
	client, err := NewClient(ctx, instance.APIKey, instance.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("create genai client for %s: %w", instance.Ref, err)
	}

	cfg := &einoGemini.Config{
		Client: client,
		Model:  instance.Ref.ModelID,
	}
	if instance.MaxTokens > 0 {
		mt := instance.MaxTokens
		cfg.MaxTokens = &mt
	}
	if instance.Reasoning {
		cfg.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: false}
	}

	applyParams(cfg, params)

	return einoGemini.NewChatModel(ctx, cfg)
}

func applyParams(conf *einoGemini.Config, params *entity.LLMParams) {
	if params == nil {
		return
	}

	conf.TopK = params.TopK
	conf.TopP = params.TopP

	if params.Temperature != nil {
		t := *params.Temperature
		conf.Temperature = &t
	}
	if params.MaxTokens != 0 {
		mt := params.MaxTokens
		conf.MaxTokens = &mt
	}
	if params.EnableThinking != nil {
		conf.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: *params.EnableThinking,
		}
	}
}

func (p *Plugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: "",
		APIKey:  "${GOOGLE_API_KEY}",
		Models: []options.ModelDefinition{
			{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", ContextWindow: 1048576, MaxTokens: 8192},
			{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Reasoning: true, ContextWindow: 1048576, MaxTokens: 65536},
			{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Reasoning: true, ContextWindow: 1048576, MaxTokens: 65536},
		},
	}
}
