package provider

import (
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/anthropic"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/deepseek"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/gemini"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/ollama"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/openai"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/qwen"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
)

// NewInTreeRegistry returns a registry holding every built-in provider.
func NewInTreeRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(gemini.Name, func() spi.ChatModelPlugin { return gemini.New() })
	r.MustRegister(openai.Name, func() spi.ChatModelPlugin { return openai.New() })
	r.MustRegister(anthropic.Name, func() spi.ChatModelPlugin { return anthropic.New() })
	r.MustRegister(deepseek.Name, func() spi.ChatModelPlugin { return deepseek.New() })
	r.MustRegister(qwen.Name, func() spi.ChatModelPlugin { return qwen.New() })
	r.MustRegister(ollama.Name, func() spi.ChatModelPlugin { return ollama.New() })
	return r
}
