package ports

import (
	"context"
	"errors"

	"github.com/masayahak/go-order-app/internal/domains/users/domain"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Identity is the authenticated subject attached to a request.
type Identity struct {
	UserID   int64
	Username string
	Role     domain.Role
}

func (id Identity) IsAdministrator() bool { return id.Role == domain.RoleAdministrator }

// Service exposes user bounded context use cases to adapters.
type Service interface {
	CreateUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, username string) error
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
	Logout(ctx context.Context, token string) error
}
