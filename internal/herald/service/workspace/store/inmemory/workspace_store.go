package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/workspace/pkg/errno"
)

var _ repo.WorkspaceRepository = (*WorkspaceStore)(nil)

// WorkspaceStore is an in-memory implementation of the WorkspaceRepository interface.
type WorkspaceStore struct {
	mu        sync.RWMutex
	events    map[string]*entity.Event
	emails    map[string]*entity.Email
	files     map[string]*entity.File
	documents map[string]*entity.Document
}

func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{
		events:    make(map[string]*entity.Event),
		emails:    make(map[string]*entity.Email),
		files:     make(map[string]*entity.File),
		documents: make(map[string]*entity.Document),
	}
}

func (s *WorkspaceStore) ListEvents(_ context.Context, userID string, q entity.EventQuery) ([]*entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Event, 0)
	for _, e := range s.events {
		if e.UserID == userID && q.Match(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return limit(out, q.Limit), nil
}

func (s *WorkspaceStore) SaveEvent(_ context.Context, event *entity.Event) error {
	if event.UserID == "" {
		return errno.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *WorkspaceStore) ListEmails(_ context.Context, userID string, q entity.EmailQuery) ([]*entity.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Email, 0)
	for _, e := range s.emails {
		if e.UserID == userID && q.Match(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return limit(out, q.Limit), nil
}

func (s *WorkspaceStore) SaveEmail(_ context.Context, email *entity.Email) error {
	if email.UserID == "" {
		return errno.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *email
	s.emails[email.ID] = &cp
	return nil
}

func (s *WorkspaceStore) SearchFiles(_ context.Context, userID, text string, n int) ([]*entity.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.File, 0)
	for _, f := range s.files {
		if f.UserID == userID && entity.MatchFile(f, text) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.After(out[j].ModifiedAt) })
	return limit(out, n), nil
}

func (s *WorkspaceStore) SaveFile(_ context.Context, file *entity.File) error {
	if file.UserID == "" {
		return errno.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *file
	s.files[file.ID] = &cp
	return nil
}

func (s *WorkspaceStore) SaveDocument(_ context.Context, doc *entity.Document) error {
	if doc.UserID == "" {
		return errno.ErrMissingUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.documents[doc.ID] = &cp
	return nil
}

func (s *WorkspaceStore) GetDocument(_ context.Context, userID, id string) (*entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID {
		return nil, errno.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
