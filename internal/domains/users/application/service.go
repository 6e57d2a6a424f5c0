package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/masayahak/go-order-app/internal/domains/users/domain"
	"github.com/masayahak/go-order-app/internal/domains/users/ports"
)

// Service exposes user bounded context use cases: account management,
// login/logout, and token authentication.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	issuer   tokenIssuer
	now      func() time.Time
}

func NewService(repo ports.Repository, sessions ports.SessionStore, secret []byte, tokenTTL time.Duration) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{
		repo:     repo,
		sessions: sessions,
		issuer:   newTokenIssuer(secret, tokenTTL),
		now:      time.Now,
	}
}

func (s *Service) CreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	user, err := domain.New(username, password, role)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

// Login verifies credentials and issues a signed session token. The
// failure mode is identical for unknown users and wrong passwords.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidCredentials)
		}
		return "", err
	}
	if !user.CheckPassword(password) {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	token, sessionID, expiresAt, err := s.issuer.issue(user, s.now())
	if err != nil {
		return "", err
	}
	err = s.sessions.Save(ctx, ports.Session{
		ID:        sessionID,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate validates the token signature and expiry, then checks the
// session has not been revoked.
func (s *Service) Authenticate(ctx context.Context, token string) (ports.Identity, error) {
	claims, err := s.issuer.parse(token)
	if err != nil {
		return ports.Identity{}, mapError(ports.ErrInvalidCredentials)
	}
	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return ports.Identity{}, mapError(err)
	}
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return ports.Identity{}, mapError(ports.ErrSessionNotFound)
	}
	subjectID, err := claims.subjectID()
	if err != nil {
		return ports.Identity{}, mapError(ports.ErrInvalidCredentials)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return ports.Identity{}, mapError(ports.ErrInvalidCredentials)
	}
	return ports.Identity{
		UserID:   subjectID,
		Username: claims.Username,
		Role:     role,
	}, nil
}

// Logout revokes the token's session. Already-invalid tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.issuer.parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

var _ ports.Service = (*Service)(nil)
