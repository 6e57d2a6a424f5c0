package orderserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersports "github.com/masayahak/go-order-app/internal/domains/users/ports"
	apierrors "github.com/masayahak/go-order-app/internal/shared/errors"
)

const (
	identityContextKey = "auth.identity"
	sessionCookieName  = "order_app_session"
)

// RequireAuth validates the session token and attaches the caller identity
// to the request context. All API routes except login sit behind it.
func RequireAuth(users usersports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing session token"))
			c.Abort()
			return
		}
		identity, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired session"))
			c.Abort()
			return
		}
		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireAdministrator gates mutations on master data. Must run after
// RequireAuth.
func RequireAdministrator() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFrom(c)
		if !ok {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing session token"))
			c.Abort()
			return
		}
		if !identity.IsAdministrator() {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("administrator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (usersports.Identity, bool) {
	value, ok := c.Get(identityContextKey)
	if !ok {
		return usersports.Identity{}, false
	}
	identity, ok := value.(usersports.Identity)
	return identity, ok
}

// extractToken accepts either a bearer header or the session cookie.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie)
}
