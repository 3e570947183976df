package entity

// LLMParams are per-call sampling overrides. Nil pointers keep provider defaults.
type LLMParams struct {
	Temperature    *float32            `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	TopP           *float32            `json:"top_p,omitempty"`
	TopK           *int32              `json:"top_k,omitempty"`
	ResponseFormat ModelResponseFormat `json:"response_format"`
	EnableThinking *bool               `json:"enable_thinking,omitempty"`
}

// ModelResponseFormat defines the format of the model's response.
type ModelResponseFormat int64

const (
	ModelResponseFormatText ModelResponseFormat = iota
	ModelResponseFormatJSON
)

func (f ModelResponseFormat) String() string {
	if f == ModelResponseFormatJSON {
		return "json"
	}
	return "text"
}
