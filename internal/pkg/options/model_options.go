package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// ModelOptions configures the reasoning-model providers.
//
// Built-in providers ship default configs; entries under Providers either
// extend them ("merge") or stand alone ("replace").
type ModelOptions struct {
	Mode            string                     `json:"mode"             mapstructure:"mode"`
	DefaultProvider string                     `json:"default-provider" mapstructure:"default-provider"`
	DefaultModel    string                     `json:"default-model"    mapstructure:"default-model"`
	RequestTimeout  time.Duration              `json:"request-timeout"  mapstructure:"request-timeout"`
	Providers       map[string]*ProviderConfig `json:"providers"        mapstructure:"providers"`
}

type ProviderConfig struct {
	BaseURL string            `json:"base-url" mapstructure:"base-url"`
	APIKey  string            `json:"api-key"  mapstructure:"api-key"`
	Models  []ModelDefinition `json:"models"   mapstructure:"models"`
}

type ModelDefinition struct {
	ID            string `json:"id"             mapstructure:"id"`
	Name          string `json:"name"           mapstructure:"name"`
	Reasoning     bool   `json:"reasoning"      mapstructure:"reasoning"`
	ContextWindow int    `json:"context-window" mapstructure:"context-window"`
	MaxTokens     int    `json:"max-tokens"     mapstructure:"max-tokens"`
}

func NewModelOptions() *ModelOptions {
	return &ModelOptions{
		Mode:            "merge",
		DefaultProvider: "gemini",
		DefaultModel:    "gemini-2.0-flash",
		RequestTimeout:  60 * time.Second,
		Providers:       make(map[string]*ProviderConfig),
	}
}

func (o *ModelOptions) Validate() []error {
	var errs []error
	if o.Mode != "merge" && o.Mode != "replace" {
		errs = append(errs, fmt.Errorf("invalid model mode %q, must be 'merge' or 'replace'", o.Mode))
	}
	if o.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("--models.request-timeout must be positive"))
	}
	for id, p := range o.Providers {
		if p == nil {
			errs = append(errs, fmt.Errorf("provider %q: empty config", id))
			continue
		}
		for _, m := range p.Models {
			if m.ID == "" {
				errs = append(errs, fmt.Errorf("provider %q: model id is required", id))
			}
		}
	}
	return errs
}

// ParseModelRef splits "provider/model" into its parts. A bare model id
// keeps the provider empty.
func ParseModelRef(ref string) (provider, model string) {
	if i := strings.Index(ref, "/"); i > 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

func (o *ModelOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Mode, "models.mode", o.Mode, "Model provider merge mode: 'merge' or 'replace'.")
	fs.StringVar(&o.DefaultProvider, "models.default-provider", o.DefaultProvider, "Default provider ID.")
	fs.StringVar(&o.DefaultModel, "models.default-model", o.DefaultModel, "Default model ID.")
	fs.DurationVar(&o.RequestTimeout, "models.request-timeout", o.RequestTimeout, "Timeout applied to each reasoning-model call.")
}
