package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"mandalfund/internal/access"
	"mandalfund/internal/obs"
)

// Gate enforces the access rule table on every request. It must run after
// Session, which places the resolved identity in the context. Redirects use
// 302 so browser clients follow to the login or denied page.
func Gate(gate *access.Gate, metrics *obs.Metrics, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			decision := gate.Evaluate(r.URL.Path, id)
			metrics.IncGateDecision(gate.Classify(r.URL.Path).String(), decision.Outcome.String())

			switch decision.Outcome {
			case access.Allow:
				next.ServeHTTP(w, r)
			case access.RedirectRewrite:
				http.Redirect(w, r, decision.Location, http.StatusFound)
			case access.RedirectLogin:
				http.Redirect(w, r, decision.Location, http.StatusFound)
			case access.RedirectDenied:
				log.Debug().
					Str("path", r.URL.Path).
					Str("user_id", id.UserID).
					Str("role", id.Role.String()).
					Msg("admin route denied")
				http.Redirect(w, r, decision.Location, http.StatusFound)
			}
		})
	}
}
