package service

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
)

type ModelManager interface {
	// Initialize resolves providers and models from built-in defaults and user config.
	// It must be called once before any other method.
	Initialize(ctx context.Context) error

	// GetModel returns the resolved model for ref.
	GetModel(ctx context.Context, ref entity.ModelRef) (*entity.ModelInstance, error)
	// ListModels returns every resolved model ordered by provider then model id.
	ListModels(ctx context.Context) ([]*entity.ModelInstance, error)
	// DefaultRef returns the system default model reference.
	DefaultRef() entity.ModelRef

	// GetChatModel returns a cached BaseChatModel for ref, built with provider defaults.
	GetChatModel(ctx context.Context, ref entity.ModelRef) (model.BaseChatModel, error)
	// BuildChatModel always builds a fresh instance since params change the model.
	BuildChatModel(ctx context.Context, ref entity.ModelRef, params *entity.LLMParams) (model.BaseChatModel, error)
	// GetDefaultChatModel returns the cached BaseChatModel for the default model.
	GetDefaultChatModel(ctx context.Context) (model.BaseChatModel, error)
}
