package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masayahak/go-order-app/internal/domains/users/adapters/memory"
	"github.com/masayahak/go-order-app/internal/domains/users/domain"
	"github.com/masayahak/go-order-app/internal/domains/users/ports"
)

var testSecret = []byte("unit-test-secret")

func newTestService(t *testing.T) (*Service, *memory.Repository, *memory.SessionStore) {
	t.Helper()
	repo := memory.NewRepository()
	sessions := memory.NewSessionStore()
	return NewService(repo, sessions, testSecret, time.Hour), repo, sessions
}

func seedUser(t *testing.T, svc *Service, username, password string, role domain.Role) *domain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), username, password, role)
	require.NoError(t, err)
	return user
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	user := seedUser(t, svc, "admin", "secret-password", domain.RoleAdministrator)
	assert.NotEqual(t, "secret-password", user.PasswordHash)
	assert.True(t, user.CheckPassword("secret-password"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "secret-password", domain.RoleUser)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(ctx, "bob", "short", domain.RoleUser)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = svc.CreateUser(ctx, "bob", "secret-password", domain.Role("Owner"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "secret-password", domain.RoleAdministrator)

	token, err := svc.Login(ctx, "admin", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)
	assert.Equal(t, domain.RoleAdministrator, identity.Role)
	assert.True(t, identity.IsAdministrator())
	assert.Positive(t, identity.UserID)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "secret-password", domain.RoleAdministrator)

	_, err := svc.Login(ctx, "admin", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	// Unknown user fails the same way as a wrong password.
	_, err = svc.Login(ctx, "nobody", "secret-password")
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestAuthenticate_RejectsTamperedToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "secret-password", domain.RoleAdministrator)

	token, err := svc.Login(ctx, "admin", "secret-password")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token+"x")
	require.ErrorIs(t, err, ErrAuthentication)

	other := NewService(memory.NewRepository(), memory.NewSessionStore(), []byte("other-secret"), time.Hour)
	_, err = other.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "secret-password", domain.RoleAdministrator)

	token, err := svc.Login(ctx, "admin", "secret-password")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	// The signature is still valid, but the session is gone.
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrAuthentication)

	// Logging out twice is a no-op.
	require.NoError(t, svc.Logout(ctx, token))
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	repo := memory.NewRepository()
	sessions := memory.NewSessionStore()
	svc := NewService(repo, sessions, testSecret, time.Hour)
	ctx := context.Background()
	seedUser(t, svc, "admin", "secret-password", domain.RoleAdministrator)

	token, err := svc.Login(ctx, "admin", "secret-password")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrAuthentication)
}
