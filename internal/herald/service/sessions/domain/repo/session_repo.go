package repo

import (
	"context"

	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
)

// SessionRepository defines the persistence interface for sessions and
// everything recorded inside them.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Touch bumps UpdatedAt.
	Touch(ctx context.Context, id string) error
	// Delete removes a session with its messages and tool calls.
	Delete(ctx context.Context, id string) error
	// ListByUser returns a user's sessions, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Session, error)

	AddMessage(ctx context.Context, msg *entity.Message) error
	// RecentMessages returns up to limit of the newest messages, oldest first.
	// limit <= 0 returns all.
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]*entity.Message, error)

	AddToolCall(ctx context.Context, call *entity.ToolCall) error
	// RecentToolCalls returns up to limit of the newest tool calls, oldest first.
	RecentToolCalls(ctx context.Context, sessionID string, limit int) ([]*entity.ToolCall, error)
}
