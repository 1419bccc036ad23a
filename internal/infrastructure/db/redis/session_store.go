package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

const sessionPrefix = "session:"

// SessionStore persists sessions as JSON values under session:<id> with a
// TTL equal to the session's remaining lifetime, so Redis reaps expired
// sessions without any sweeper.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save writes the session atomically with its TTL. An already-expired
// session is rejected rather than written without expiry.
func (s *SessionStore) Save(ctx context.Context, sess domain.Session) error {
	if sess.ID == "" {
		return errors.New("session id must not be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionPrefix+sess.ID, data, ttl).Err()
}

// Get loads a session. Missing keys and entries past their expiry both
// yield domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	if id == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, sessionPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("session get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Redis TTL should have reaped this already; check anyway.
	if sess.Expired(time.Now()) {
		_ = s.Delete(ctx, id)
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session key. Deleting a missing key is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, sessionPrefix+id).Err()
}
