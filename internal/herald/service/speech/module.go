package speech

import (
	"context"
	"time"

	llmGemini "github.com/kiosk404/herald/internal/herald/service/llm/provider/gemini"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/disabled"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/gemini"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/spi"
	"github.com/kiosk404/herald/pkg/logger"
)

// Config holds the configuration for the Speech module.
type Config struct {
	// Provider is "gemini" or "disabled".
	Provider string `json:"provider,omitempty"`
	// APIKey accepts a ${ENV} reference.
	APIKey   string        `json:"api_key,omitempty"`
	BaseURL  string        `json:"base_url,omitempty"`
	STTModel string        `json:"stt_model,omitempty"`
	TTSModel string        `json:"tts_model,omitempty"`
	Voice    string        `json:"voice,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.Provider == "" {
		c.Provider = gemini.Name
	}
	if c.APIKey == "" {
		c.APIKey = "${GOOGLE_API_KEY}"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return CompletedConfig{c}
}

type Module struct {
	Provider spi.Provider
}

func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	logger.Info("[Speech] creating Speech module...")

	if c.Provider != gemini.Name {
		logger.Info("[Speech] speech provider disabled")
		return &Module{Provider: disabled.New()}, nil
	}

	apiKey := helper.ResolveEnvValue(c.APIKey)
	if apiKey == "" {
		logger.Warn("[Speech] no API key for gemini speech, falling back to disabled provider")
		return &Module{Provider: disabled.New()}, nil
	}
	client, err := llmGemini.NewClient(ctx, apiKey, c.BaseURL)
	if err != nil {
		logger.Warn("[Speech] create gemini client failed, speech disabled: %v", err)
		return &Module{Provider: disabled.New()}, nil
	}

	p := gemini.New(client, gemini.Config{
		STTModel: c.STTModel,
		TTSModel: c.TTSModel,
		Voice:    c.Voice,
		Timeout:  c.Timeout,
	})
	logger.Info("[Speech] using gemini speech (stt=%s, tts=%s)", p.STTModelName(), p.TTSModelName())
	return &Module{Provider: p}, nil
}
