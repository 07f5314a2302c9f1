// Package handlers holds the HTTP endpoints. Handlers stay thin: decode,
// call a repository, transform through internal/report where the dashboards
// need it, encode.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"mandalfund/internal/access"
	"mandalfund/internal/auth"
	"mandalfund/internal/domain"
	"mandalfund/internal/middleware"
	"mandalfund/internal/notify/email"
	"mandalfund/internal/obs"
	"mandalfund/internal/storage"
)

// App is the handler container. Everything is an interface or a small
// struct so tests can swap fakes in.
type App struct {
	Log zerolog.Logger
	// SecureCookies marks session cookies HTTPS-only; off in development
	// where the API runs on plain HTTP.
	SecureCookies bool

	Auth        *auth.Authenticator
	Users       domain.UserRepository
	Roles       domain.RoleRepository
	Donations   domain.DonationRepository
	Expenses    domain.ExpenseRepository
	Sponsors    domain.SponsorRepository
	Allocations domain.AllocationRepository
	Mandals     domain.MandalRepository
	Files       *storage.FileStore
	Mail        email.Sender
	Metrics     *obs.Metrics
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

// identity returns the request identity resolved by the session middleware.
func (a *App) identity(r *http.Request) access.Identity {
	return middleware.IdentityFromContext(r.Context())
}

// currentMandal resolves the tenant for the request: the {slug} URL param on
// tenant-scoped routes, otherwise the session's active mandal.
func (a *App) currentMandal(r *http.Request) (*domain.Mandal, error) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slug = a.identity(r).MandalSlug
	}
	if slug == "" {
		return nil, domain.ErrNotMember
	}
	return a.Mandals.GetBySlug(r.Context(), slug)
}
