package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kiosk404/herald/internal/herald/service/llm/provider/spi"
)

// Registry is a thread-safe registry of provider plugin factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]spi.PluginFactory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]spi.PluginFactory),
	}
}

// Register adds a factory. Names must be unique.
func (r *Registry) Register(name string, factory spi.PluginFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("provider %s is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register that panics on duplicates.
func (r *Registry) MustRegister(name string, factory spi.PluginFactory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Get instantiates the plugin registered under name.
func (r *Registry) Get(name string) (spi.ChatModelPlugin, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider %s is not registered", name)
	}
	return factory(), nil
}

// List returns the registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
