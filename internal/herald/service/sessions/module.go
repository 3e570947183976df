package sessions

import (
	"context"
	"fmt"

	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/service"
	boltdbStore "github.com/kiosk404/herald/internal/herald/service/sessions/store/boltdb"
	"github.com/kiosk404/herald/internal/herald/service/sessions/store/inmemory"
	"github.com/kiosk404/herald/pkg/logger"
)

// Config holds the configuration for the Sessions module.
type Config struct {
	// StoreType selects the persistence backend: "inmemory" or "boltdb".
	StoreType string `json:"store_type,omitempty"`

	// BoltDBPath is the file path for BoltDB storage.
	BoltDBPath string `json:"boltdb_path,omitempty"`
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.StoreType == "" {
		c.StoreType = "inmemory"
	}
	if c.BoltDBPath == "" {
		c.BoltDBPath = "data/sessions.db"
	}
	return CompletedConfig{c}
}

type Module struct {
	Service service.SessionService
	boltDB  *boltdbStore.DB
}

func (m *Module) Close() error {
	if m.boltDB != nil {
		return m.boltDB.Close()
	}
	return nil
}

func (c CompletedConfig) New(_ context.Context) (*Module, error) {
	logger.Info("[Sessions] creating Sessions module...")

	var (
		store  repo.SessionRepository
		boltDB *boltdbStore.DB
	)
	switch c.StoreType {
	case "boltdb":
		var err error
		boltDB, err = boltdbStore.Open(c.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb at %s: %w", c.BoltDBPath, err)
		}
		store = boltdbStore.NewSessionStore(boltDB)
		logger.Info("[Sessions] using BoltDB store at %s", c.BoltDBPath)
	default:
		store = inmemory.NewSessionStore()
		logger.Info("[Sessions] using in-memory store")
	}

	return &Module{
		Service: service.NewSessionService(store),
		boltDB:  boltDB,
	}, nil
}
