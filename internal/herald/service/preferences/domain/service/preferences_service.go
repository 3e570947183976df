package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/preferences/pkg/errno"
)

// PreferencesService is the preference store contract consumed by enrichment
// and the preferences API.
type PreferencesService interface {
	// GetPreferences returns errno.ErrPreferencesNotFound when nothing is stored.
	GetPreferences(ctx context.Context, userID string) (*entity.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs *entity.Preferences) (*entity.Preferences, error)
}

var _ PreferencesService = (*preferencesService)(nil)

type preferencesService struct {
	repo repo.PreferencesRepository
	now  func() time.Time
}

func NewPreferencesService(r repo.PreferencesRepository) PreferencesService {
	return &preferencesService{repo: r, now: time.Now}
}

func (s *preferencesService) GetPreferences(ctx context.Context, userID string) (*entity.Preferences, error) {
	return s.repo.Get(ctx, userID)
}

func (s *preferencesService) UpdatePreferences(ctx context.Context, userID string, prefs *entity.Preferences) (*entity.Preferences, error) {
	if prefs == nil {
		return nil, fmt.Errorf("%w: empty body", errno.ErrInvalidPreferences)
	}
	normalize(prefs)
	if err := validate(prefs); err != nil {
		return nil, err
	}
	prefs.UserID = userID
	prefs.UpdatedAt = s.now()
	if err := s.repo.Put(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func normalize(p *entity.Preferences) {
	p.CommunicationStyle.Tone = strings.ToLower(strings.TrimSpace(p.CommunicationStyle.Tone))
	p.CommunicationStyle.DetailLevel = strings.ToLower(strings.TrimSpace(p.CommunicationStyle.DetailLevel))
	p.Proactivity = strings.ToLower(strings.TrimSpace(p.Proactivity))
	p.Timezone = strings.TrimSpace(p.Timezone)
}

func validate(p *entity.Preferences) error {
	if t := p.CommunicationStyle.Tone; t != "" && !slices.Contains(entity.Tones, t) {
		return fmt.Errorf("%w: unknown tone %q", errno.ErrInvalidPreferences, t)
	}
	if d := p.CommunicationStyle.DetailLevel; d != "" && !slices.Contains(entity.DetailLevels, d) {
		return fmt.Errorf("%w: unknown detail level %q", errno.ErrInvalidPreferences, d)
	}
	if v := p.Proactivity; v != "" && !slices.Contains(entity.Proactivity, v) {
		return fmt.Errorf("%w: unknown proactivity %q", errno.ErrInvalidPreferences, v)
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", errno.ErrInvalidPreferences, p.Timezone)
		}
	}
	return nil
}
