package workspace

import (
	"context"
	"fmt"

	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/repo"
	boltdbStore "github.com/kiosk404/herald/internal/herald/service/workspace/store/boltdb"
	"github.com/kiosk404/herald/internal/herald/service/workspace/store/inmemory"
	"github.com/kiosk404/herald/pkg/logger"
)

// Config holds the configuration for the Workspace module, the backend
// behind the calendar, email, drive and document tools.
type Config struct {
	// StoreType selects the persistence backend: "inmemory" or "boltdb".
	StoreType string `json:"store_type,omitempty"`

	// BoltDBPath is the file path for BoltDB storage.
	BoltDBPath string `json:"boltdb_path,omitempty"`

	// SeedFile optionally points at a YAML fixture loaded at startup.
	SeedFile string `json:"seed_file,omitempty"`
}

type CompletedConfig struct {
	*Config
}

func (c *Config) Complete() CompletedConfig {
	if c.StoreType == "" {
		c.StoreType = "inmemory"
	}
	if c.BoltDBPath == "" {
		c.BoltDBPath = "data/workspace.db"
	}
	return CompletedConfig{c}
}

type Module struct {
	Repo   repo.WorkspaceRepository
	boltDB *boltdbStore.DB
}

func (m *Module) Close() error {
	if m.boltDB != nil {
		return m.boltDB.Close()
	}
	return nil
}

func (c CompletedConfig) New(ctx context.Context) (*Module, error) {
	logger.Info("[Workspace] creating Workspace module...")

	m := &Module{}
	switch c.StoreType {
	case "boltdb":
		db, err := boltdbStore.Open(c.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb at %s: %w", c.BoltDBPath, err)
		}
		m.boltDB = db
		m.Repo = boltdbStore.NewWorkspaceStore(db)
		logger.Info("[Workspace] using BoltDB store at %s", c.BoltDBPath)
	default:
		m.Repo = inmemory.NewWorkspaceStore()
		logger.Info("[Workspace] using in-memory store")
	}

	if c.SeedFile != "" {
		seed, err := LoadSeed(c.SeedFile)
		if err != nil {
			m.Close()
			return nil, err
		}
		if err := seed.Apply(ctx, m.Repo); err != nil {
			m.Close()
			return nil, err
		}
		logger.Info("[Workspace] seeded %d events, %d emails, %d files, %d documents from %s",
			len(seed.Events), len(seed.Emails), len(seed.Files), len(seed.Documents), c.SeedFile)
	}
	return m, nil
}
