package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
)

type registration struct {
	tool entity.Tool
	meta *entity.ToolMetadata
}

// Registry is the tool catalog. It is populated at startup and read
// concurrently by every request afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registration
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registration),
	}
}

// Register stores a tool together with its metadata. Registering an existing
// name replaces the previous entry.
func (r *Registry) Register(name string, tool entity.Tool, meta *entity.ToolMetadata) {
	meta = meta.Clone()
	if meta == nil {
		meta = &entity.ToolMetadata{}
	}
	meta.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; ok {
		logger.Warn("[Tools] tool %s registered twice, replacing previous registration", name)
	}
	r.tools[name] = registration{tool: tool, meta: meta}
}

func (r *Registry) GetTool(name string) (entity.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return reg.tool, true
}

func (r *Registry) GetMetadata(name string) (*entity.ToolMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return reg.meta.Clone(), true
}

// GetAllMetadata returns every tool's metadata sorted by name.
func (r *Registry) GetAllMetadata() []*entity.ToolMetadata {
	return r.collect(func(*entity.ToolMetadata) bool { return true })
}

func (r *Registry) GetByCategory(category entity.Category) []*entity.ToolMetadata {
	return r.collect(func(m *entity.ToolMetadata) bool { return m.Category == category })
}

// Search matches text case-insensitively against tool names, descriptions
// and example queries.
func (r *Registry) Search(text string) []*entity.ToolMetadata {
	needle := strings.ToLower(strings.TrimSpace(text))
	return r.collect(func(m *entity.ToolMetadata) bool {
		if strings.Contains(strings.ToLower(m.Name), needle) ||
			strings.Contains(strings.ToLower(m.Description), needle) {
			return true
		}
		for _, ex := range m.Examples {
			if strings.Contains(strings.ToLower(ex.Query), needle) {
				return true
			}
		}
		return false
	})
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

func (r *Registry) collect(keep func(*entity.ToolMetadata) bool) []*entity.ToolMetadata {
	r.mu.RLock()
	out := make([]*entity.ToolMetadata, 0, len(r.tools))
	for _, reg := range r.tools {
		if keep(reg.meta) {
			out = append(out, reg.meta.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
