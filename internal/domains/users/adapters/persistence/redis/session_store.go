package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/masayahak/go-order-app/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

const keyPrefix = "session:"

// SessionStore keeps login sessions in Redis. Expiry is enforced by the
// key TTL, so no purge job is needed.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

type sessionPayload struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session ports.Session) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if session.ID == "" {
		return errors.New("session id is required")
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(sessionPayload{Username: session.Username, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(session.ID), raw, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (ports.Session, error) {
	if err := s.ensureClient(); err != nil {
		return ports.Session{}, err
	}
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.Session{}, ports.ErrSessionNotFound
		}
		return ports.Session{}, err
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ports.Session{}, err
	}
	return ports.Session{
		ID:        id,
		Username:  payload.Username,
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	return s.client.Del(ctx, key(id)).Err()
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}

func key(id string) string {
	return fmt.Sprintf("%s%s", keyPrefix, id)
}
