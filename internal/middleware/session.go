package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"mandalfund/internal/access"
	"mandalfund/internal/auth"
	"mandalfund/internal/domain"
	"mandalfund/internal/obs"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "mandalfund_session"

type identityKey struct{}

// RoleSource resolves the platform role for a user id. Implemented by the
// roles repository.
type RoleSource interface {
	RoleFor(ctx context.Context, userID string) (domain.Role, error)
}

// Session resolves the request's identity and stores it in the context as an
// access.Identity. It never blocks a request itself; the gate middleware
// decides based on what is resolved here.
//
// Two reads happen per authenticated request: the session lookup, then one
// role lookup keyed on the user id. A failing role lookup is logged and
// counted but resolves to domain.RoleUnknown, so a store hiccup downgrades
// privileges instead of crashing the request or granting admin.
func Session(authn *auth.Authenticator, roles RoleSource, metrics *obs.Metrics, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := access.Identity{}

			if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				sess, err := authn.Resolve(r.Context(), cookie.Value)
				switch {
				case err == nil:
					id.Authenticated = true
					id.UserID = sess.UserID
					id.MandalSlug = sess.MandalSlug
				case errors.Is(err, auth.ErrSessionNotFound):
					// stale cookie, proceed anonymous
				default:
					// session store unreachable: the safe default is
					// unauthenticated, which the gate turns into a
					// login redirect, never an allow
					log.Error().Err(err).Msg("session resolve failed")
				}
			}

			if id.Authenticated {
				role, err := roles.RoleFor(r.Context(), id.UserID)
				if err != nil {
					metrics.IncRoleLookupFailure()
					log.Warn().Err(err).Str("user_id", id.UserID).Msg("role lookup failed, treating as non-admin")
					role = domain.RoleUnknown
				}
				id.Role = role
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the resolved identity, or a zero (anonymous)
// identity when the session middleware did not run.
func IdentityFromContext(ctx context.Context) access.Identity {
	if id, ok := ctx.Value(identityKey{}).(access.Identity); ok {
		return id
	}
	return access.Identity{}
}

// ContextWithIdentity injects an identity, for handler tests.
func ContextWithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}
