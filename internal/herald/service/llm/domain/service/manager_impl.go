package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/herald/internal/herald/service/llm/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider"
	"github.com/kiosk404/herald/internal/herald/service/llm/provider/helper"
	"github.com/kiosk404/herald/internal/pkg/options"
	"github.com/kiosk404/herald/pkg/logger"
)

var _ ModelManager = (*modelManager)(nil)

type modelManager struct {
	opts     *options.ModelOptions
	registry *provider.Registry

	mu     sync.RWMutex
	models map[entity.ModelRef]*entity.ModelInstance
	cache  map[entity.ModelRef]model.BaseChatModel
}

func NewModelManager(opts *options.ModelOptions, registry *provider.Registry) ModelManager {
	return &modelManager{
		opts:     opts,
		registry: registry,
		models:   make(map[entity.ModelRef]*entity.ModelInstance),
		cache:    make(map[entity.ModelRef]model.BaseChatModel),
	}
}

func (m *modelManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opts.Mode != "replace" {
		for _, name := range m.registry.List() {
			plugin, err := m.registry.Get(name)
			if err != nil {
				return err
			}
			m.loadProvider(name, plugin.DefaultConfig())
		}
	}

	for id, pc := range m.opts.Providers {
		plugin, err := m.registry.Get(id)
		if err != nil {
			logger.Warn("[LLM] provider %s has no plugin, skipped", id)
			continue
		}
		m.overlayProvider(id, pc, plugin.DefaultConfig())
	}

	logger.Info("[LLM] %d models resolved, default %s", len(m.models), m.DefaultRef())
	return nil
}

func (m *modelManager) loadProvider(id string, pc *options.ProviderConfig) {
	if pc == nil {
		return
	}
	for _, def := range pc.Models {
		ref := entity.ModelRef{ProviderID: id, ModelID: def.ID}
		m.models[ref] = newInstance(ref, pc, def)
	}
}

// overlayProvider applies user config on top of built-in defaults. Endpoint
// and key overrides apply to every model of the provider.
func (m *modelManager) overlayProvider(id string, pc, defaults *options.ProviderConfig) {
	if pc == nil {
		return
	}
	effective := *pc
	if defaults != nil {
		if effective.BaseURL == "" {
			effective.BaseURL = defaults.BaseURL
		}
		if effective.APIKey == "" {
			effective.APIKey = defaults.APIKey
		}
	}
	for ref, inst := range m.models {
		if ref.ProviderID != id {
			continue
		}
		if pc.BaseURL != "" {
			inst.BaseURL = pc.BaseURL
		}
		if pc.APIKey != "" {
			inst.APIKey = helper.ResolveEnvValue(pc.APIKey)
		}
	}
	for _, def := range pc.Models {
		ref := entity.ModelRef{ProviderID: id, ModelID: def.ID}
		m.models[ref] = newInstance(ref, &effective, def)
	}
}

func newInstance(ref entity.ModelRef, pc *options.ProviderConfig, def options.ModelDefinition) *entity.ModelInstance {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	return &entity.ModelInstance{
		Ref:           ref,
		DisplayName:   name,
		BaseURL:       pc.BaseURL,
		APIKey:        helper.ResolveEnvValue(pc.APIKey),
		Reasoning:     def.Reasoning,
		ContextWindow: def.ContextWindow,
		MaxTokens:     def.MaxTokens,
	}
}

func (m *modelManager) GetModel(_ context.Context, ref entity.ModelRef) (*entity.ModelInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.models[ref]
	if !ok {
		return nil, fmt.Errorf("model %s not found", ref)
	}
	cp := *inst
	return &cp, nil
}

func (m *modelManager) ListModels(_ context.Context) ([]*entity.ModelInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entity.ModelInstance, 0, len(m.models))
	for _, inst := range m.models {
		cp := *inst
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ref.ProviderID != out[j].Ref.ProviderID {
			return out[i].Ref.ProviderID < out[j].Ref.ProviderID
		}
		return out[i].Ref.ModelID < out[j].Ref.ModelID
	})
	return out, nil
}

func (m *modelManager) DefaultRef() entity.ModelRef {
	providerID, modelID := options.ParseModelRef(m.opts.DefaultModel)
	if providerID == "" {
		providerID = m.opts.DefaultProvider
	}
	return entity.ModelRef{ProviderID: providerID, ModelID: modelID}
}

func (m *modelManager) GetChatModel(ctx context.Context, ref entity.ModelRef) (model.BaseChatModel, error) {
	m.mu.RLock()
	cm, ok := m.cache[ref]
	m.mu.RUnlock()
	if ok {
		return cm, nil
	}

	cm, err := m.BuildChatModel(ctx, ref, nil)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, ok := m.cache[ref]; ok {
		cm = existing
	} else {
		m.cache[ref] = cm
	}
	m.mu.Unlock()
	return cm, nil
}

func (m *modelManager) BuildChatModel(ctx context.Context, ref entity.ModelRef, params *entity.LLMParams) (model.BaseChatModel, error) {
	inst, err := m.GetModel(ctx, ref)
	if err != nil {
		return nil, err
	}
	plugin, err := m.registry.Get(ref.ProviderID)
	if err != nil {
		return nil, err
	}
	cm, err := plugin.BuildChatModel(ctx, inst, params)
	if err != nil {
		return nil, fmt.Errorf("build chat model %s: %w", ref, err)
	}
	logger.Debug("[LLM] chat model %s built", ref)
	return cm, nil
}

func (m *modelManager) GetDefaultChatModel(ctx context.Context) (model.BaseChatModel, error) {
	return m.GetChatModel(ctx, m.DefaultRef())
}
