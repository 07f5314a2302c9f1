// Package access implements the per-request authorization gate: a static
// classification of URL path prefixes into public, authenticated, and
// admin-only, plus the decision logic that maps an identity and a path onto
// allow-or-redirect. The gate is pure; resolving the identity (session
// lookup, role lookup) happens in the HTTP middleware that drives it.
package access

import (
	"strings"

	"mandalfund/internal/domain"
)

// Class is the route classification of a path.
type Class int

const (
	ClassPublic Class = iota
	ClassAuthenticated
	ClassAdminOnly
)

func (c Class) String() string {
	switch c {
	case ClassAuthenticated:
		return "authenticated"
	case ClassAdminOnly:
		return "admin_only"
	default:
		return "public"
	}
}

// Outcome is what the gate decided for a request.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectDenied
	RedirectRewrite
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect_login"
	case RedirectDenied:
		return "redirect_denied"
	case RedirectRewrite:
		return "redirect_rewrite"
	default:
		return "allow"
	}
}

// Decision is the gate's verdict. Location is set only for redirect outcomes.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Identity is the request-scoped authentication context, resolved once by the
// session middleware and passed in explicitly. Role defaults to
// domain.RoleUnknown, which never grants admin access; MandalSlug is the
// user's active tenant and feeds the legacy-path rewrite.
type Identity struct {
	Authenticated bool
	UserID        string
	Role          domain.Role
	MandalSlug    string
}

// Gate evaluates requests against a fixed path-prefix rule table.
type Gate struct {
	adminOnly  []string
	authOnly   []string
	rewrites   map[string]string // legacy path -> tenant-scoped template with {slug}
	loginPath  string
	deniedPath string
}

// Config is the gate's rule table.
type Config struct {
	// AdminOnlyPrefixes require an admin role. Matching is prefix-based
	// with trailing-wildcard semantics: a prefix matches itself and any
	// sub-path.
	AdminOnlyPrefixes []string
	// AuthenticatedPrefixes require a signed-in user of any role. Paths
	// may appear in neither list, in which case they are public.
	AuthenticatedPrefixes []string
	// LegacyRewrites maps exact legacy paths to their tenant-scoped
	// equivalents; "{slug}" in the target is replaced with the identity's
	// mandal slug. Rewritten paths implicitly require authentication.
	LegacyRewrites map[string]string
	LoginPath      string
	DeniedPath     string
}

// New builds a gate from an explicit rule table.
func New(cfg Config) *Gate {
	return &Gate{
		adminOnly:  cfg.AdminOnlyPrefixes,
		authOnly:   cfg.AuthenticatedPrefixes,
		rewrites:   cfg.LegacyRewrites,
		loginPath:  cfg.LoginPath,
		deniedPath: cfg.DeniedPath,
	}
}

// Default returns the gate with the application's rule table.
func Default() *Gate {
	return New(Config{
		AdminOnlyPrefixes: []string{
			"/dashboard/internal",
			"/funds",
			"/audit/allocations",
			"/users/manage",
			"/secret",
		},
		AuthenticatedPrefixes: []string{
			"/donate",
			"/expense",
			"/dashboard/user",
		},
		LegacyRewrites: map[string]string{
			"/dashboard":   "/mandal/{slug}/dashboard",
			"/donate/list": "/mandal/{slug}/donate/list",
		},
		LoginPath:  "/login",
		DeniedPath: "/denied",
	})
}

// Classify returns the classification of a path. Admin-only wins over
// authenticated when prefixes overlap (e.g. /dashboard/internal vs a broader
// authenticated prefix), because the lists are checked most-restrictive
// first.
func (g *Gate) Classify(path string) Class {
	for _, p := range g.adminOnly {
		if matchPrefix(path, p) {
			return ClassAdminOnly
		}
	}
	for _, p := range g.authOnly {
		if matchPrefix(path, p) {
			return ClassAuthenticated
		}
	}
	if _, ok := g.rewrites[path]; ok {
		return ClassAuthenticated
	}
	return ClassPublic
}

// Evaluate decides whether the request may proceed. The checks run in fixed
// order and short-circuit:
//
//  1. Paths outside the rule table are allowed unconditionally.
//  2. Without an authenticated identity the result is a login redirect; the
//     role is never consulted.
//  3. Admin-only paths deny any role other than an explicit admin.
//  4. Legacy paths are rewritten to their tenant-scoped equivalent.
//
// Evaluate never mutates the identity and has no side effects.
func (g *Gate) Evaluate(path string, id Identity) Decision {
	class := g.Classify(path)
	if class == ClassPublic {
		return Decision{Outcome: Allow}
	}
	if !id.Authenticated {
		return Decision{Outcome: RedirectLogin, Location: g.loginPath}
	}
	if class == ClassAdminOnly && !id.Role.IsAdmin() {
		return Decision{Outcome: RedirectDenied, Location: g.deniedPath}
	}
	if target, ok := g.rewrites[path]; ok && id.MandalSlug != "" {
		return Decision{
			Outcome:  RedirectRewrite,
			Location: strings.ReplaceAll(target, "{slug}", id.MandalSlug),
		}
	}
	return Decision{Outcome: Allow}
}

// matchPrefix implements trailing-wildcard prefix matching: prefix matches
// itself and any sub-path, but never a sibling sharing the same leading
// characters (/funds matches /funds/list, not /fundsraiser).
func matchPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
