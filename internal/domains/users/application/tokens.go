package application

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/masayahak/go-order-app/internal/domains/users/domain"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and verifies HS256 session tokens. The jti claim
// doubles as the session id for server-side revocation.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newTokenIssuer(secret []byte, ttl time.Duration) tokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return tokenIssuer{secret: secret, ttl: ttl}
}

func (t tokenIssuer) issue(user *domain.User, now time.Time) (token string, sessionID string, expiresAt time.Time, err error) {
	if len(t.secret) == 0 {
		return "", "", time.Time{}, errors.New("token secret not configured")
	}
	sessionID = uuid.NewString()
	expiresAt = now.Add(t.ttl)
	claims := sessionClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, sessionID, expiresAt, nil
}

func (t tokenIssuer) parse(token string) (sessionClaims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", tok.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil {
		return sessionClaims{}, err
	}
	if !parsed.Valid {
		return sessionClaims{}, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func (c sessionClaims) subjectID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
