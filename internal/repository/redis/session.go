package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Rrens/nutrisaas-chat/internal/conversation"
)

const (
	sessionPrefix = "chat:session:"
	lockPrefix    = "chat:lock:"
	lockTTL       = 30 * time.Second
)

// releaseScript deletes the lock only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionStore keeps conversation sessions in Redis
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore creates a new session store; sessions expire after ttl
// without activity.
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Get loads a session; a missing or expired session yields (nil, nil)
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*conversation.Session, error) {
	data, err := s.client.rdb.Get(ctx, sessionPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session conversation.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores a session and refreshes its expiry
func (s *SessionStore) Save(ctx context.Context, session *conversation.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.rdb.Set(ctx, sessionPrefix+session.ID.String(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.rdb.Del(ctx, sessionPrefix+id.String(), lockPrefix+id.String()).Err()
}

// TryLock acquires the per-session turn lock without waiting
func (s *SessionStore) TryLock(ctx context.Context, id uuid.UUID) (func(), bool, error) {
	key := lockPrefix + id.String()
	token := uuid.NewString()

	ok, err := s.client.rdb.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		_ = releaseScript.Run(context.Background(), s.client.rdb, []string{key}, token).Err()
	}
	return release, true, nil
}
