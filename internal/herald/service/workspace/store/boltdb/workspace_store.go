package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/boltdb/bolt"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/workspace/pkg/errno"
	"github.com/kiosk404/herald/pkg/utils/json"
)

var _ repo.WorkspaceRepository = (*WorkspaceStore)(nil)

// WorkspaceStore implements WorkspaceRepository on BoltDB. Keys are
// "<userID>/<id>" so a user's records are a contiguous cursor range.
type WorkspaceStore struct {
	boltDB *bolt.DB
}

func NewWorkspaceStore(db *DB) *WorkspaceStore {
	return &WorkspaceStore{boltDB: db.Bolt()}
}

func recordKey(userID, id string) []byte {
	return []byte(userID + "/" + id)
}

func (s *WorkspaceStore) put(bucket []byte, userID, id string, v any) error {
	if userID == "" {
		return errno.ErrMissingUser
	}
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		return tx.Bucket(bucket).Put(recordKey(userID, id), data)
	})
}

// scan walks every record of userID in bucket.
func (s *WorkspaceStore) scan(bucket []byte, userID string, fn func(v []byte) error) error {
	prefix := []byte(userID + "/")
	return s.boltDB.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *WorkspaceStore) ListEvents(_ context.Context, userID string, q entity.EventQuery) ([]*entity.Event, error) {
	out := make([]*entity.Event, 0)
	err := s.scan(bucketEvents, userID, func(v []byte) error {
		var e entity.Event
		if err := json.Unmarshal(v, &e); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}
		if q.Match(&e) {
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %q: %w", userID, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return limit(out, q.Limit), nil
}

func (s *WorkspaceStore) SaveEvent(_ context.Context, event *entity.Event) error {
	return s.put(bucketEvents, event.UserID, event.ID, event)
}

func (s *WorkspaceStore) ListEmails(_ context.Context, userID string, q entity.EmailQuery) ([]*entity.Email, error) {
	out := make([]*entity.Email, 0)
	err := s.scan(bucketEmails, userID, func(v []byte) error {
		var e entity.Email
		if err := json.Unmarshal(v, &e); err != nil {
			return fmt.Errorf("failed to unmarshal email: %w", err)
		}
		if q.Match(&e) {
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list emails for %q: %w", userID, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return limit(out, q.Limit), nil
}

func (s *WorkspaceStore) SaveEmail(_ context.Context, email *entity.Email) error {
	return s.put(bucketEmails, email.UserID, email.ID, email)
}

func (s *WorkspaceStore) SearchFiles(_ context.Context, userID, text string, n int) ([]*entity.File, error) {
	out := make([]*entity.File, 0)
	err := s.scan(bucketFiles, userID, func(v []byte) error {
		var f entity.File
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("failed to unmarshal file: %w", err)
		}
		if entity.MatchFile(&f, text) {
			out = append(out, &f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search files for %q: %w", userID, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.After(out[j].ModifiedAt) })
	return limit(out, n), nil
}

func (s *WorkspaceStore) SaveFile(_ context.Context, file *entity.File) error {
	return s.put(bucketFiles, file.UserID, file.ID, file)
}

func (s *WorkspaceStore) SaveDocument(_ context.Context, doc *entity.Document) error {
	return s.put(bucketDocuments, doc.UserID, doc.ID, doc)
}

func (s *WorkspaceStore) GetDocument(_ context.Context, userID, id string) (*entity.Document, error) {
	var doc entity.Document
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketDocuments).Get(recordKey(userID, id))
		if data == nil {
			return errno.ErrDocumentNotFound
		}
		return json.Unmarshal(data, &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
