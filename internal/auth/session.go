// Package auth issues and resolves login sessions. A session is a server-side
// record (redis in production, memory in tests) referenced by a signed token
// carried in a cookie; the token alone never encodes privileges, so a role
// change or mandal switch takes effect on the next request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mandalfund/internal/domain"
)

// ErrSessionNotFound marks an expired, revoked, or never-issued session.
var ErrSessionNotFound = errors.New("auth: session not found")

// Session is the server-side login record.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	MandalSlug string    `json:"mandal_slug"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Store persists sessions.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Authenticator binds the token codec and the session store.
type Authenticator struct {
	secret   string
	sessions Store
	ttl      time.Duration
}

// NewAuthenticator wires an authenticator. TTL bounds both the stored record
// and the token expiry.
func NewAuthenticator(secret string, sessions Store, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: secret, sessions: sessions, ttl: ttl}
}

// Issue creates a session for the user and returns the signed token to set as
// a cookie.
func (a *Authenticator) Issue(ctx context.Context, user domain.User, mandalSlug string) (string, error) {
	now := time.Now().UTC()
	s := Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Email:      user.Email,
		MandalSlug: mandalSlug,
		CreatedAt:  now,
		ExpiresAt:  now.Add(a.ttl),
	}
	if err := a.sessions.Put(ctx, s); err != nil {
		return "", fmt.Errorf("auth: store session: %w", err)
	}
	token, err := signToken(a.secret, s.ID, user.ID, s.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Resolve verifies a token and loads its session. Tampered or expired tokens
// and missing session records all come back as ErrSessionNotFound; callers
// treat every failure mode as "not signed in".
func (a *Authenticator) Resolve(ctx context.Context, token string) (Session, error) {
	sessionID, userID, err := verifyToken(a.secret, token)
	if err != nil {
		return Session{}, ErrSessionNotFound
	}
	s, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, domain.ErrNotFound) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("auth: load session: %w", err)
	}
	if s.UserID != userID || time.Now().After(s.ExpiresAt) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Revoke deletes the session behind a token. Unresolvable tokens are a no-op:
// logout is idempotent.
func (a *Authenticator) Revoke(ctx context.Context, token string) error {
	sessionID, _, err := verifyToken(a.secret, token)
	if err != nil {
		return nil
	}
	return a.sessions.Delete(ctx, sessionID)
}

// SwitchMandal updates the active tenant on an existing session.
func (a *Authenticator) SwitchMandal(ctx context.Context, token, mandalSlug string) error {
	s, err := a.Resolve(ctx, token)
	if err != nil {
		return err
	}
	s.MandalSlug = mandalSlug
	return a.sessions.Put(ctx, s)
}

// TTL exposes the configured session lifetime for cookie Max-Age.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}
