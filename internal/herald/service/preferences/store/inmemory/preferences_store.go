package inmemory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/preferences/pkg/errno"
)

var _ repo.PreferencesRepository = (*PreferencesStore)(nil)

type PreferencesStore struct {
	mu    sync.RWMutex
	prefs map[string]*entity.Preferences
}

func NewPreferencesStore() *PreferencesStore {
	return &PreferencesStore{
		prefs: make(map[string]*entity.Preferences),
	}
}

func (s *PreferencesStore) Get(_ context.Context, userID string) (*entity.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, errno.ErrPreferencesNotFound
	}
	return clone(p), nil
}

func (s *PreferencesStore) Put(_ context.Context, prefs *entity.Preferences) error {
	cp := clone(prefs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefs.UserID] = cp
	return nil
}

func clone(p *entity.Preferences) *entity.Preferences {
	out := *p
	out.Interests = slices.Clone(p.Interests)
	out.Custom = maps.Clone(p.Custom)
	return &out
}
