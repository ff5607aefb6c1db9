package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("incorrect password")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotConfigured   = errors.New("admin password is not configured")
)

// SessionStore persists issued session tokens with their expiry.
type SessionStore interface {
	Put(ctx context.Context, token string, expiresAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// Auth gates every order-read and order-write operation (order creation
// excepted) behind a single shared secret. The secret is passed in
// explicitly; there is no ambient global.
type Auth struct {
	password     string
	passwordHash string
	sessionTTL   time.Duration
	sessions     SessionStore
}

func NewAuth(password, passwordHash string, sessionTTL time.Duration, sessions SessionStore) *Auth {
	return &Auth{
		password:     password,
		passwordHash: passwordHash,
		sessionTTL:   sessionTTL,
		sessions:     sessions,
	}
}

// SessionTTL returns the configured session lifetime (default 7 days,
// applied by config).
func (a *Auth) SessionTTL() time.Duration {
	return a.sessionTTL
}

// Login checks the supplied password against the configured secret and
// issues an opaque session token. Both sides of the comparison have all
// whitespace stripped first. When a bcrypt hash is configured it takes
// precedence over the plaintext secret.
func (a *Auth) Login(ctx context.Context, password string) (string, error) {
	supplied := stripWhitespace(password)

	switch {
	case a.passwordHash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(supplied)); err != nil {
			return "", ErrInvalidPassword
		}
	case a.password != "":
		expected := stripWhitespace(a.password)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
			return "", ErrInvalidPassword
		}
	default:
		log.Error().Msg("admin: no password or password hash configured")
		return "", ErrNotConfigured
	}

	token, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("admin: failed to generate session token: %w", err)
	}

	if err := a.sessions.Put(ctx, token.String(), time.Now().Add(a.sessionTTL)); err != nil {
		return "", fmt.Errorf("admin: failed to store session: %w", err)
	}

	log.Info().Msg("admin: login successful")

	return token.String(), nil
}

// Logout invalidates the token immediately. Logging out an unknown token is
// not an error.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("admin: failed to delete session: %w", err)
	}
	return nil
}

// Require returns nil when the token belongs to a live session, otherwise
// ErrUnauthorized. Used as a precondition by every admin-only operation.
func (a *Auth) Require(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	ok, err := a.sessions.Exists(ctx, token)
	if err != nil {
		log.Error().Err(err).Msg("admin: failed to check session")
		return fmt.Errorf("admin: failed to check session: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), "")
}
