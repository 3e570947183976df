package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/sessions/pkg/errno"
	boltdbStore "github.com/kiosk404/herald/internal/herald/service/sessions/store/boltdb"
	"github.com/kiosk404/herald/internal/herald/service/sessions/store/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]repo.SessionRepository {
	db, err := boltdbStore.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return map[string]repo.SessionRepository{
		"inmemory": inmemory.NewSessionStore(),
		"boltdb":   boltdbStore.NewSessionStore(db),
	}
}

func TestSessionService_History(t *testing.T) {
	for name, r := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewSessionService(r)

			session, err := svc.CreateSession(ctx, "alice", "  What's on   my calendar today? ")
			require.NoError(t, err)
			assert.Equal(t, "What's on my calendar today?", session.Title)

			for i := 0; i < 12; i++ {
				role := entity.RoleUser
				if i%2 == 1 {
					role = entity.RoleAssistant
				}
				require.NoError(t, svc.AddMessage(ctx, session.ID, role, fmt.Sprintf("m%d", i), nil))
			}

			msgs, err := svc.RecentMessages(ctx, "alice", session.ID, 5)
			require.NoError(t, err)
			require.Len(t, msgs, 5)
			assert.Equal(t, "m7", msgs[0].Content)
			assert.Equal(t, "m11", msgs[4].Content)

			all, err := svc.RecentMessages(ctx, "alice", session.ID, 0)
			require.NoError(t, err)
			assert.Len(t, all, 12)

			require.NoError(t, svc.AddToolCall(ctx, &entity.ToolCall{SessionID: session.ID, Tool: "web_search", Success: true}))
			require.NoError(t, svc.AddToolCall(ctx, &entity.ToolCall{SessionID: session.ID, Tool: "crawl_webpage", Success: true}))
			calls, err := svc.RecentToolCalls(ctx, "alice", session.ID, 1)
			require.NoError(t, err)
			require.Len(t, calls, 1)
			assert.Equal(t, "crawl_webpage", calls[0].Tool)
			assert.NotEmpty(t, calls[0].ID)

			_, err = svc.RecentMessages(ctx, "bob", session.ID, 5)
			assert.ErrorIs(t, err, errno.ErrNotOwner)

			_, err = svc.RecentMessages(ctx, "alice", "missing", 5)
			assert.ErrorIs(t, err, errno.ErrSessionNotFound)
			assert.Error(t, svc.AddMessage(ctx, "missing", entity.RoleUser, "x", nil))
		})
	}
}

func TestSessionService_ListAndDelete(t *testing.T) {
	for name, r := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewSessionService(r)

			a, err := svc.CreateSession(ctx, "alice", "first")
			require.NoError(t, err)
			_, err = svc.CreateSession(ctx, "alice", "")
			require.NoError(t, err)
			_, err = svc.CreateSession(ctx, "bob", "other")
			require.NoError(t, err)

			list, err := svc.ListSessions(ctx, "alice")
			require.NoError(t, err)
			assert.Len(t, list, 2)

			require.NoError(t, svc.AddMessage(ctx, a.ID, entity.RoleUser, "hi", map[string]any{"voice": true}))

			assert.ErrorIs(t, svc.DeleteSession(ctx, "bob", a.ID), errno.ErrNotOwner)
			require.NoError(t, svc.DeleteSession(ctx, "alice", a.ID))

			_, err = svc.GetSession(ctx, "alice", a.ID)
			assert.ErrorIs(t, err, errno.ErrSessionNotFound)

			list, err = svc.ListSessions(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "New conversation", list[0].Title)
		})
	}
}
