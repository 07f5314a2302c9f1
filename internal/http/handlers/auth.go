package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mandalfund/internal/auth"
	"mandalfund/internal/domain"
	"mandalfund/internal/middleware"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		a.error(w, http.StatusBadRequest, "bad_request", "email and a password of at least 8 characters are required")
		return
	}

	if _, err := a.Users.GetByEmail(r.Context(), req.Email); err == nil {
		a.error(w, http.StatusConflict, "conflict", "email already registered")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		a.Log.Error().Err(err).Msg("signup lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		a.Log.Error().Err(err).Msg("signup create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	// new accounts start as volunteers; an admin promotes them later
	if err := a.Roles.Assign(r.Context(), user.ID, domain.RoleVolunteer); err != nil {
		a.Log.Error().Err(err).Str("user_id", user.ID).Msg("default role assignment failed")
	}

	a.json(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := a.Users.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// identical response for unknown email and wrong password
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	// the active tenant is resolved once at login and stored on the
	// session; the gate's legacy-path rewrite reads it from there
	slug, err := a.Mandals.PrimarySlugFor(r.Context(), user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotMember) {
		a.Log.Error().Err(err).Str("user_id", user.ID).Msg("mandal slug resolution failed")
		slug = ""
	}

	token, err := a.Auth.Issue(r.Context(), *user, slug)
	if err != nil {
		a.Log.Error().Err(err).Msg("session issue failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign in")
		return
	}

	http.SetCookie(w, a.sessionCookie(token, int(a.Auth.TTL()/time.Second)))
	a.json(w, http.StatusOK, map[string]any{
		"user_id":     user.ID,
		"email":       user.Email,
		"mandal_slug": slug,
	})
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := a.Auth.Revoke(r.Context(), cookie.Value); err != nil {
			a.Log.Warn().Err(err).Msg("session revoke failed")
		}
	}
	http.SetCookie(w, a.sessionCookie("", -1))
	a.json(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (a *App) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// LoginPage is the target of the gate's unauthenticated redirect.
func (a *App) LoginPage(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"page":    "login",
		"message": "sign in at POST /auth/login",
	})
}

// DeniedPage is the target of the gate's authorization redirect.
func (a *App) DeniedPage(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusForbidden, map[string]string{
		"page":    "denied",
		"message": "this area is restricted to mandal admins",
	})
}
