package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound signals the session id is unknown, expired, or revoked.
var ErrSessionNotFound = errors.New("session not found")

// Session is a live login, keyed by the token's jti claim.
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

// SessionStore abstracts session persistence so tokens can be revoked
// server-side before their expiry.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// NoopSessionStore is a safe default when callers do not need revocation.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ Session) error { return nil }

func (noopSessionStore) Get(_ context.Context, id string) (Session, error) {
	return Session{ID: id}, nil
}

func (noopSessionStore) Delete(_ context.Context, _ string) error { return nil }
