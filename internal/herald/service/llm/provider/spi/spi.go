package spi

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/pkg/options"
)

// ChatModelPlugin builds Eino chat models for one provider.
type ChatModelPlugin interface {
	// Name returns the provider id, e.g. "gemini".
	Name() string
	// DefaultConfig returns the built-in endpoint, credential reference and model list.
	DefaultConfig() *options.ProviderConfig
	// BuildChatModel builds a BaseChatModel for the instance. params may be nil.
	BuildChatModel(ctx context.Context, instance *entity.ModelInstance, params *entity.LLMParams) (model.BaseChatModel, error)
}

// PluginFactory creates a ChatModelPlugin.
type PluginFactory func() ChatModelPlugin
