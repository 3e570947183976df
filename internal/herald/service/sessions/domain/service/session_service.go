package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/sessions/pkg/errno"
)

// SessionService is the session store contract the rest of herald depends on.
// Every read checks ownership: another user's session behaves as not found
// for history reads and as ErrNotOwner for explicit lookups.
type SessionService interface {
	CreateSession(ctx context.Context, userID, title string) (*entity.Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error)
	ListSessions(ctx context.Context, userID string) ([]*entity.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error

	AddMessage(ctx context.Context, sessionID string, role entity.Role, content string, metadata map[string]any) error
	RecentMessages(ctx context.Context, userID, sessionID string, limit int) ([]*entity.Message, error)

	AddToolCall(ctx context.Context, call *entity.ToolCall) error
	RecentToolCalls(ctx context.Context, userID, sessionID string, limit int) ([]*entity.ToolCall, error)
}

var _ SessionService = (*sessionService)(nil)

type sessionService struct {
	repo repo.SessionRepository
	now  func() time.Time
}

func NewSessionService(r repo.SessionRepository) SessionService {
	return &sessionService{repo: r, now: time.Now}
}

// TitleFromQuery derives a session title from the first user query.
func TitleFromQuery(query string) string {
	title := strings.Join(strings.Fields(query), " ")
	if r := []rune(title); len(r) > 60 {
		title = string(r[:57]) + "..."
	}
	if title == "" {
		title = "New conversation"
	}
	return title
}

func (s *sessionService) CreateSession(ctx context.Context, userID, title string) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		Title:     TitleFromQuery(title),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID string) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, errno.ErrNotOwner
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userID string) ([]*entity.Session, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, sessionID)
}

func (s *sessionService) AddMessage(ctx context.Context, sessionID string, role entity.Role, content string, metadata map[string]any) error {
	msg := &entity.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return err
	}
	return s.repo.Touch(ctx, sessionID)
}

func (s *sessionService) RecentMessages(ctx context.Context, userID, sessionID string, limit int) ([]*entity.Message, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.RecentMessages(ctx, sessionID, limit)
}

func (s *sessionService) AddToolCall(ctx context.Context, call *entity.ToolCall) error {
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = s.now()
	}
	return s.repo.AddToolCall(ctx, call)
}

func (s *sessionService) RecentToolCalls(ctx context.Context, userID, sessionID string, limit int) ([]*entity.ToolCall, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.RecentToolCalls(ctx, sessionID, limit)
}
