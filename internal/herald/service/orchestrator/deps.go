// Package orchestrator turns a user query into an answer: it selects a tool
// with the reasoning model, runs it, optionally chains a second tool, and
// phrases the result.
package orchestrator

import (
	"context"

	prefEntity "github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	sessEntity "github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
)

// ToolRunner executes a registered tool. Implementations never panic and
// always return a non-nil envelope.
type ToolRunner interface {
	Execute(ctx context.Context, toolName, userID string, params map[string]any) *toolEntity.ToolResult
}

// Catalog is the read side of the tool registry.
type Catalog interface {
	GetAllMetadata() []*toolEntity.ToolMetadata
	GetMetadata(name string) (*toolEntity.ToolMetadata, bool)
}

// PreferenceSource loads stored personalization profiles.
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID string) (*prefEntity.Preferences, error)
}

// HistorySource reads recent session history, oldest first.
type HistorySource interface {
	RecentMessages(ctx context.Context, userID, sessionID string, limit int) ([]*sessEntity.Message, error)
	RecentToolCalls(ctx context.Context, userID, sessionID string, limit int) ([]*sessEntity.ToolCall, error)
}

// SessionWriter persists turns. Calls from the pipeline are fire-and-forget.
type SessionWriter interface {
	CreateSession(ctx context.Context, userID, title string) (*sessEntity.Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*sessEntity.Session, error)
	AddMessage(ctx context.Context, sessionID string, role sessEntity.Role, content string, metadata map[string]any) error
	AddToolCall(ctx context.Context, call *sessEntity.ToolCall) error
}

// SessionStore is the full session contract used by the pipeline.
type SessionStore interface {
	HistorySource
	SessionWriter
}
