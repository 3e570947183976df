package repo

import (
	"context"

	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
)

// PreferencesRepository persists one preference record per user.
type PreferencesRepository interface {
	// Get returns errno.ErrPreferencesNotFound when the user has none.
	Get(ctx context.Context, userID string) (*entity.Preferences, error)
	Put(ctx context.Context, prefs *entity.Preferences) error
}
