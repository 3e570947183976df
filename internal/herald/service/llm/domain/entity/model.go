package entity

import "fmt"

// ModelRef identifies a model by provider and model id.
type ModelRef struct {
	ProviderID string `json:"provider_id"`
	ModelID    string `json:"model_id"`
}

func (r ModelRef) String() string {
	return fmt.Sprintf("%s/%s", r.ProviderID, r.ModelID)
}

// ModelInstance is a model resolved from provider defaults and user config.
type ModelInstance struct {
	Ref           ModelRef `json:"ref"`
	DisplayName   string   `json:"display_name"`
	BaseURL       string   `json:"base_url"`
	APIKey        string   `json:"-"`
	Reasoning     bool     `json:"reasoning"`
	ContextWindow int      `json:"context_window"`
	MaxTokens     int      `json:"max_tokens"`
}
