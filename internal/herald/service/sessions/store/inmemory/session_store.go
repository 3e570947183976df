package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/sessions/pkg/errno"
)

var _ repo.SessionRepository = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of the SessionRepository interface.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*entity.Session
	messages  map[string][]*entity.Message
	toolCalls map[string][]*entity.ToolCall
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*entity.Session),
		messages:  make(map[string][]*entity.Message),
		toolCalls: make(map[string][]*entity.ToolCall),
	}
}

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, errno.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *SessionStore) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return errno.ErrSessionNotFound
	}
	session.UpdatedAt = time.Now()
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return errno.ErrSessionNotFound
	}
	delete(s.sessions, id)
	delete(s.messages, id)
	delete(s.toolCalls, id)
	return nil
}

func (s *SessionStore) ListByUser(_ context.Context, userID string) ([]*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*entity.Session, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			cp := *session
			sessions = append(sessions, &cp)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt) })
	return sessions, nil
}

func (s *SessionStore) AddMessage(_ context.Context, msg *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[msg.SessionID]; !ok {
		return errno.ErrSessionNotFound
	}
	cp := *msg
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], &cp)
	return nil
}

func (s *SessionStore) RecentMessages(_ context.Context, sessionID string, limit int) ([]*entity.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, errno.ErrSessionNotFound
	}
	return tail(s.messages[sessionID], limit), nil
}

func (s *SessionStore) AddToolCall(_ context.Context, call *entity.ToolCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[call.SessionID]; !ok {
		return errno.ErrSessionNotFound
	}
	cp := *call
	s.toolCalls[call.SessionID] = append(s.toolCalls[call.SessionID], &cp)
	return nil
}

func (s *SessionStore) RecentToolCalls(_ context.Context, sessionID string, limit int) ([]*entity.ToolCall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, errno.ErrSessionNotFound
	}
	return tail(s.toolCalls[sessionID], limit), nil
}

// tail copies the last n items, keeping their order.
func tail[T any](items []*T, n int) []*T {
	if n > 0 && len(items) > n {
		items = items[len(items)-n:]
	}
	out := make([]*T, 0, len(items))
	for _, it := range items {
		cp := *it
		out = append(out, &cp)
	}
	return out
}
