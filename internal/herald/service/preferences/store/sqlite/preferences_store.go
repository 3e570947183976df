package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/preferences/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/preferences/pkg/errno"
	"github.com/kiosk404/herald/pkg/utils/json"
	_ "github.com/mattn/go-sqlite3" // Register SQLite3 driver
)

const TablePreferences = "preferences"

var _ repo.PreferencesRepository = (*PreferencesStore)(nil)

// PreferencesStore keeps each profile as a JSON document keyed by user id.
type PreferencesStore struct {
	db *sql.DB
}

func Open(path string) (*PreferencesStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &PreferencesStore{db: db}, nil
}

func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + TablePreferences + ` (
		user_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (s *PreferencesStore) Close() error {
	return s.db.Close()
}

func (s *PreferencesStore) Get(ctx context.Context, userID string) (*entity.Preferences, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM `+TablePreferences+` WHERE user_id = ?`, userID)
	var data string
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errno.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	var prefs entity.Preferences
	if err := json.UnmarshalString(data, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &prefs, nil
}

func (s *PreferencesStore) Put(ctx context.Context, prefs *entity.Preferences) error {
	data, err := json.MarshalString(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	updated := prefs.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO `+TablePreferences+` (user_id, data, updated_at) VALUES (?, ?, ?)`,
		prefs.UserID, data, updated.Unix())
	return err
}
