package entity

import (
	"context"
	"time"
)

// Tool is an opaque callable. params have already been validated against
// the tool's declared parameters.
type Tool interface {
	Invoke(ctx context.Context, userID string, params map[string]any) (any, error)
}

// ToolFunc adapts a plain function to Tool.
type ToolFunc func(ctx context.Context, userID string, params map[string]any) (any, error)

func (f ToolFunc) Invoke(ctx context.Context, userID string, params map[string]any) (any, error) {
	return f(ctx, userID, params)
}

// ToolResult is the uniform envelope produced by the executor.
type ToolResult struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"timestamp"`
	// Cached is set when the result was served from the response cache.
	Cached bool `json:"cached,omitempty"`
}

// Failure builds a failed envelope.
func Failure(tool, msg string, now time.Time) *ToolResult {
	return &ToolResult{
		Success:   false,
		Error:     msg,
		Tool:      tool,
		Timestamp: now,
	}
}
