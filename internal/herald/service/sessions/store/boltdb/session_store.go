package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/sessions/domain/repo"
	"github.com/kiosk404/herald/internal/herald/service/sessions/pkg/errno"
	"github.com/kiosk404/herald/pkg/utils/json"
)

var _ repo.SessionRepository = (*SessionStore)(nil)

// SessionStore implements SessionRepository on BoltDB. Messages and tool
// calls are keyed "<sessionID>/<sequence>" so a cursor walks them in
// insertion order.
type SessionStore struct {
	boltDB *bolt.DB
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{boltDB: db.Bolt()}
}

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		return tx.Bucket(bucketSessions).Put([]byte(session.ID), data)
	})
}

func getSession(tx *bolt.Tx, id string) (*entity.Session, error) {
	data := tx.Bucket(bucketSessions).Get([]byte(id))
	if data == nil {
		return nil, errno.ErrSessionNotFound
	}
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	var session *entity.Session
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		var err error
		session, err = getSession(tx, id)
		return err
	})
	return session, err
}

func (s *SessionStore) Touch(_ context.Context, id string) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		session, err := getSession(tx, id)
		if err != nil {
			return err
		}
		session.UpdatedAt = time.Now()
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		return tx.Bucket(bucketSessions).Put([]byte(id), data)
	})
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		if _, err := getSession(tx, id); err != nil {
			return err
		}
		if err := tx.Bucket(bucketSessions).Delete([]byte(id)); err != nil {
			return err
		}
		for _, name := range [][]byte{bucketMessages, bucketToolCalls} {
			if err := deletePrefix(tx.Bucket(name), childPrefix(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SessionStore) ListByUser(_ context.Context, userID string) ([]*entity.Session, error) {
	sessions := make([]*entity.Session, 0)
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			var session entity.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
			if session.UserID == userID {
				sessions = append(sessions, &session)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by user %q: %w", userID, err)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt) })
	return sessions, nil
}

func (s *SessionStore) AddMessage(_ context.Context, msg *entity.Message) error {
	return s.appendChild(bucketMessages, msg.SessionID, msg)
}

func (s *SessionStore) RecentMessages(_ context.Context, sessionID string, limit int) ([]*entity.Message, error) {
	var out []*entity.Message
	err := s.scanChildren(bucketMessages, sessionID, func(v []byte) error {
		var msg entity.Message
		if err := json.Unmarshal(v, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal message: %w", err)
		}
		out = append(out, &msg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tail(out, limit), nil
}

func (s *SessionStore) AddToolCall(_ context.Context, call *entity.ToolCall) error {
	return s.appendChild(bucketToolCalls, call.SessionID, call)
}

func (s *SessionStore) RecentToolCalls(_ context.Context, sessionID string, limit int) ([]*entity.ToolCall, error) {
	var out []*entity.ToolCall
	err := s.scanChildren(bucketToolCalls, sessionID, func(v []byte) error {
		var call entity.ToolCall
		if err := json.Unmarshal(v, &call); err != nil {
			return fmt.Errorf("failed to unmarshal tool call: %w", err)
		}
		out = append(out, &call)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tail(out, limit), nil
}

func childPrefix(sessionID string) []byte {
	return []byte(sessionID + "/")
}

func (s *SessionStore) appendChild(bucket []byte, sessionID string, v any) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		if _, err := getSession(tx, sessionID); err != nil {
			return err
		}
		b := tx.Bucket(bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		key := append(childPrefix(sessionID), []byte(fmt.Sprintf("%020d", seq))...)
		return b.Put(key, data)
	})
}

func (s *SessionStore) scanChildren(bucket []byte, sessionID string, fn func(v []byte) error) error {
	prefix := childPrefix(sessionID)
	return s.boltDB.View(func(tx *bolt.Tx) error {
		if _, err := getSession(tx, sessionID); err != nil {
			return err
		}
		c := tx.Bucket(bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func deletePrefix(b *bolt.Bucket, prefix []byte) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func tail[T any](items []*T, n int) []*T {
	if n > 0 && len(items) > n {
		return items[len(items)-n:]
	}
	if items == nil {
		return []*T{}
	}
	return items
}
