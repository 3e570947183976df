package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sessEntity "github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	sessService "github.com/kiosk404/herald/internal/herald/service/sessions/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/sessions/store/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenHistory struct{}

func (brokenHistory) RecentMessages(context.Context, string, string, int) ([]*sessEntity.Message, error) {
	return nil, errors.New("timeout")
}

func (brokenHistory) RecentToolCalls(context.Context, string, string, int) ([]*sessEntity.ToolCall, error) {
	return nil, errors.New("timeout")
}

func TestContextLoader(t *testing.T) {
	ctx := context.Background()
	sessions := sessService.NewSessionService(inmemory.NewSessionStore())
	s, err := sessions.CreateSession(ctx, "alice", "planning")
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		require.NoError(t, sessions.AddMessage(ctx, s.ID, sessEntity.RoleUser, fmt.Sprintf("m%d", i), nil))
	}
	require.NoError(t, sessions.AddToolCall(ctx, &sessEntity.ToolCall{SessionID: s.ID, Tool: "web_search", Success: true}))

	loader := NewContextLoader(sessions, time.Second)

	conv := loader.Load(ctx, s.ID, "alice", 4)
	require.Len(t, conv.Messages, 4)
	assert.Equal(t, "m2", conv.Messages[0].Content)
	assert.Equal(t, "m5", conv.Messages[3].Content)
	require.Len(t, conv.ToolCalls, 1)

	assert.True(t, loader.Load(ctx, s.ID, "bob", 4).Empty(), "foreign session")
	assert.True(t, loader.Load(ctx, "missing", "alice", 4).Empty(), "unknown session")
	assert.True(t, loader.Load(ctx, "", "alice", 4).Empty(), "no session")
	assert.True(t, NewContextLoader(brokenHistory{}, time.Second).Load(ctx, s.ID, "alice", 4).Empty(), "store error")
	assert.True(t, NewContextLoader(nil, time.Second).Load(ctx, s.ID, "alice", 4).Empty(), "no store")
}
