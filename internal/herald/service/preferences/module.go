package preferences

import (
	"context"
	"fmt"

	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/preferences/store/inmemory"
	sqliteStore "github.com/kiosk404/herald/internal/herald/service/preferences/store/sqlite"
	"github.com/kiosk404/herald/pkg/logger"
)

// Config holds the configuration for the Preferences module.
type Config struct {
	// StoreType selects the persistence backend: "inmemory" or "sqlite".
	StoreType string `json:"store_type,omitempty"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `json:"sqlite_path,omitempty"`
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.StoreType == "" {
		c.StoreType = "inmemory"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/preferences.db"
	}
	return CompletedConfig{c}
}

type Module struct {
	Service service.PreferencesService
	db      *sqliteStore.PreferencesStore
}

func (m *Module) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (c CompletedConfig) New(_ context.Context) (*Module, error) {
	logger.Info("[Preferences] creating Preferences module...")

	var (
		store repo.PreferencesRepository
		db    *sqliteStore.PreferencesStore
	)
	switch c.StoreType {
	case "sqlite":
		var err error
		db, err = sqliteStore.Open(c.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", c.SQLitePath, err)
		}
		store = db
		logger.Info("[Preferences] using SQLite store at %s", c.SQLitePath)
	default:
		store = inmemory.NewPreferencesStore()
		logger.Info("[Preferences] using in-memory store")
	}

	return &Module{
		Service: service.NewPreferencesService(store),
		db:      db,
	}, nil
}
