package service

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
	"github.com/kiosk404/herald/internal/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	instance *entity.ModelInstance
}

func (s *stubModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("ok", nil), nil
}

func (s *stubModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("ok", nil)}), nil
}

type stubPlugin struct {
	helper.BasePlugin
	builds *int
}

func (p *stubPlugin) DefaultConfig() *options.ProviderConfig {
	return &options.ProviderConfig{
		BaseURL: "https://stub.local/v1",
		APIKey:  "builtin-key",
		Models: []options.ModelDefinition{
			{ID: "small", Name: "Small", MaxTokens: 1024},
			{ID: "large", Reasoning: true},
		},
	}
}

func (p *stubPlugin) BuildChatModel(_ context.Context, instance *entity.ModelInstance, _ *entity.LLMParams) (model.BaseChatModel, error) {
	*p.builds++
	return &stubModel{instance: instance}, nil
}

func newTestManager(t *testing.T, opts *options.ModelOptions) (ModelManager, *int) {
	t.Helper()
	builds := 0
	reg := provider.NewRegistry()
	reg.MustRegister("stub", func() spi.ChatModelPlugin {
		return &stubPlugin{BasePlugin: helper.BasePlugin{PluginName: "stub"}, builds: &builds}
	})
	m := NewModelManager(opts, reg)
	require.NoError(t, m.Initialize(context.Background()))
	return m, &builds
}

func TestModelManager_MergeDefaults(t *testing.T) {
	opts := options.NewModelOptions()
	opts.DefaultProvider = "stub"
	opts.DefaultModel = "small"
	opts.Providers["stub"] = &options.ProviderConfig{
		APIKey: "user-key",
		Models: []options.ModelDefinition{{ID: "custom", Name: "Custom"}},
	}

	m, _ := newTestManager(t, opts)

	models, err := m.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, "custom", models[0].Ref.ModelID)
	assert.Equal(t, "large", models[1].Ref.ModelID)
	assert.Equal(t, "small", models[2].Ref.ModelID)

	small, err := m.GetModel(context.Background(), entity.ModelRef{ProviderID: "stub", ModelID: "small"})
	require.NoError(t, err)
	assert.Equal(t, "user-key", small.APIKey)
	assert.Equal(t, "https://stub.local/v1", small.BaseURL)
	assert.Equal(t, 1024, small.MaxTokens)

	custom, err := m.GetModel(context.Background(), entity.ModelRef{ProviderID: "stub", ModelID: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "https://stub.local/v1", custom.BaseURL)
}

func TestModelManager_ReplaceMode(t *testing.T) {
	opts := options.NewModelOptions()
	opts.Mode = "replace"
	opts.Providers["stub"] = &options.ProviderConfig{
		Models: []options.ModelDefinition{{ID: "only"}},
	}

	m, _ := newTestManager(t, opts)
	models, err := m.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "only", models[0].DisplayName)
}

func TestModelManager_UnknownProviderSkipped(t *testing.T) {
	opts := options.NewModelOptions()
	opts.Providers["nope"] = &options.ProviderConfig{Models: []options.ModelDefinition{{ID: "x"}}}

	m, _ := newTestManager(t, opts)
	_, err := m.GetModel(context.Background(), entity.ModelRef{ProviderID: "nope", ModelID: "x"})
	assert.Error(t, err)
}

func TestModelManager_GetChatModelCaches(t *testing.T) {
	opts := options.NewModelOptions()
	opts.DefaultModel = "stub/small"

	m, builds := newTestManager(t, opts)
	assert.Equal(t, entity.ModelRef{ProviderID: "stub", ModelID: "small"}, m.DefaultRef())

	first, err := m.GetDefaultChatModel(context.Background())
	require.NoError(t, err)
	second, err := m.GetDefaultChatModel(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, *builds)

	_, err = m.BuildChatModel(context.Background(), m.DefaultRef(), &entity.LLMParams{MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, *builds)
}

func TestModelManager_GetChatModelUnknown(t *testing.T) {
	m, _ := newTestManager(t, options.NewModelOptions())
	_, err := m.GetChatModel(context.Background(), entity.ModelRef{ProviderID: "stub", ModelID: "missing"})
	assert.Error(t, err)
}
