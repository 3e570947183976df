package orchestrator

import (
	"context"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/pkg/logger"
)

// ContextLoader reads recent session history for selection and response
// generation. History is always oldest first.
type ContextLoader struct {
	history HistorySource
	timeout time.Duration
}

func NewContextLoader(history HistorySource, timeout time.Duration) *ContextLoader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ContextLoader{history: history, timeout: timeout}
}

// Load never fails: any store error, unknown session or foreign session
// yields an empty context.
func (l *ContextLoader) Load(ctx context.Context, sessionID, userID string, limit int) *entity.ConversationContext {
	if l == nil || l.history == nil || sessionID == "" || limit <= 0 {
		return entity.EmptyConversation()
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	msgs, err := l.history.RecentMessages(ctx, userID, sessionID, limit)
	if err != nil {
		logger.Warn("[Context] load messages for session %s failed: %v", sessionID, err)
		return entity.EmptyConversation()
	}
	calls, err := l.history.RecentToolCalls(ctx, userID, sessionID, limit)
	if err != nil {
		logger.Warn("[Context] load tool calls for session %s failed: %v", sessionID, err)
		return entity.EmptyConversation()
	}
	return &entity.ConversationContext{Messages: msgs, ToolCalls: calls}
}
