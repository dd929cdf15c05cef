// Package memory keeps conversation sessions in process memory.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Rrens/nutrisaas-chat/internal/conversation"
)

const lockTTL = 30 * time.Second

// SessionStore implements the session store on go-cache. Sessions are kept
// serialized so callers never share a live *Session.
type SessionStore struct {
	sessions *cache.Cache
	locks    *cache.Cache
}

// NewSessionStore creates a store whose entries expire after ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionStore{
		sessions: cache.New(ttl, 10*time.Minute),
		locks:    cache.New(lockTTL, time.Minute),
	}
}

func (s *SessionStore) Get(_ context.Context, id uuid.UUID) (*conversation.Session, error) {
	x, found := s.sessions.Get(id.String())
	if !found {
		return nil, nil
	}

	var session conversation.Session
	if err := json.Unmarshal(x.([]byte), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(_ context.Context, session *conversation.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	s.sessions.Set(session.ID.String(), data, cache.DefaultExpiration)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.sessions.Delete(id.String())
	s.locks.Delete(id.String())
	return nil
}

// TryLock acquires the per-session turn lock without waiting
func (s *SessionStore) TryLock(_ context.Context, id uuid.UUID) (func(), bool, error) {
	key := id.String()
	token := uuid.NewString()
	if err := s.locks.Add(key, token, cache.DefaultExpiration); err != nil {
		return nil, false, nil
	}

	release := func() {
		if x, found := s.locks.Get(key); found && x.(string) == token {
			s.locks.Delete(key)
		}
	}
	return release, true, nil
}
