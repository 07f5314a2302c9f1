package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mandalfund/internal/domain"
	"mandalfund/internal/notify/email"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type mandalRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	City string `json:"city"`
}

// requireMandalAdmin verifies the caller is an active admin member of the
// mandal. The platform gate covers /funds and friends; tenant-scoped mandal
// management lives outside those prefixes and is checked here instead.
func (a *App) requireMandalAdmin(w http.ResponseWriter, r *http.Request, mandalID string) bool {
	id := a.identity(r)
	if !id.Authenticated {
		a.error(w, http.StatusUnauthorized, "unauthorized", "sign in first")
		return false
	}
	m, err := a.Mandals.Membership(r.Context(), mandalID, id.UserID)
	if err != nil || m.Status != domain.MembershipActive || !m.Role.IsAdmin() {
		a.error(w, http.StatusForbidden, "forbidden", "only active mandal admins can do this")
		return false
	}
	return true
}

// MandalsCreate registers a new mandal and makes the caller its first active
// admin member.
func (a *App) MandalsCreate(w http.ResponseWriter, r *http.Request) {
	if !a.identity(r).Authenticated {
		a.error(w, http.StatusUnauthorized, "unauthorized", "sign in first")
		return
	}
	var req mandalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	// the slug is validated as submitted, not normalized: it becomes part of
	// shared URLs and must match what the caller typed
	req.Slug = strings.TrimSpace(req.Slug)
	if !slugPattern.MatchString(req.Slug) {
		a.error(w, http.StatusBadRequest, "bad_request", "slug must be lowercase letters, digits, and hyphens")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	if _, err := a.Mandals.GetBySlug(r.Context(), req.Slug); err == nil {
		a.error(w, http.StatusConflict, "conflict", "slug already taken")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		a.Log.Error().Err(err).Msg("mandal slug lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create mandal")
		return
	}

	mandal := &domain.Mandal{
		ID:   uuid.NewString(),
		Slug: req.Slug,
		Name: strings.TrimSpace(req.Name),
		City: strings.TrimSpace(req.City),
	}
	if err := a.Mandals.Create(r.Context(), mandal); err != nil {
		a.Log.Error().Err(err).Msg("mandal create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create mandal")
		return
	}
	membership := &domain.MandalMembership{
		MandalID: mandal.ID,
		UserID:   a.identity(r).UserID,
		Role:     domain.RoleAdmin,
		Status:   domain.MembershipActive,
	}
	if err := a.Mandals.AddMembership(r.Context(), membership); err != nil {
		a.Log.Error().Err(err).Str("mandal_id", mandal.ID).Msg("founder membership failed")
	}
	a.json(w, http.StatusCreated, map[string]any{"id": mandal.ID, "slug": mandal.Slug})
}

// MandalsUpdate edits name and city. Slug is immutable once created because
// it appears in shared URLs.
func (a *App) MandalsUpdate(w http.ResponseWriter, r *http.Request) {
	var req mandalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "mandal not found")
		return
	}
	if !a.requireMandalAdmin(w, r, mandal.ID) {
		return
	}
	if strings.TrimSpace(req.Name) != "" {
		mandal.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.City) != "" {
		mandal.City = strings.TrimSpace(req.City)
	}
	if err := a.Mandals.Update(r.Context(), mandal); err != nil {
		a.Log.Error().Err(err).Msg("mandal update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update mandal")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": mandal.ID})
}

func (a *App) MandalsDelete(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "mandal not found")
		return
	}
	if !a.requireMandalAdmin(w, r, mandal.ID) {
		return
	}
	if err := a.Mandals.Delete(r.Context(), mandal.ID); err != nil {
		a.Log.Error().Err(err).Msg("mandal delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete mandal")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

const maxLogoBytes = 2 << 20

// MandalsUploadLogo replaces the mandal logo from a multipart form with a
// file field "logo".
func (a *App) MandalsUploadLogo(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "mandal not found")
		return
	}
	if !a.requireMandalAdmin(w, r, mandal.ID) {
		return
	}
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "logo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes))
	if err != nil {
		a.Log.Error().Err(err).Msg("logo read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store logo")
		return
	}
	key := fmt.Sprintf("logos/%s%s", mandal.ID, filepath.Ext(header.Filename))
	url, err := a.Files.Write(r.Context(), key, data)
	if err != nil {
		a.Log.Error().Err(err).Msg("logo write failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store logo")
		return
	}

	mandal.LogoURL = url
	if err := a.Mandals.Update(r.Context(), mandal); err != nil {
		a.Log.Error().Err(err).Msg("mandal update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store logo")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"logo_url": url})
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MandalsInvite adds a pending membership for an existing account and emails
// them. Only active admin members of the mandal may invite.
func (a *App) MandalsInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	role := domain.ParseRole(req.Role)
	if role == domain.RoleUnknown {
		role = domain.RoleVolunteer
	}

	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "mandal not found")
		return
	}

	if !a.requireMandalAdmin(w, r, mandal.ID) {
		return
	}

	invitee, err := a.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no account with that email; ask them to sign up first")
			return
		}
		a.Log.Error().Err(err).Msg("invitee lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to send invite")
		return
	}

	membership := &domain.MandalMembership{
		MandalID: mandal.ID,
		UserID:   invitee.ID,
		Role:     role,
		Status:   domain.MembershipPending,
	}
	if err := a.Mandals.AddMembership(r.Context(), membership); err != nil {
		a.Log.Error().Err(err).Msg("invite membership failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to send invite")
		return
	}

	msg := email.Message{
		To:      []string{invitee.Email},
		Subject: fmt.Sprintf("You are invited to %s", mandal.Name),
		HTML: fmt.Sprintf(
			"<p>You have been invited to join <strong>%s</strong> as a %s. Sign in to accept.</p>",
			mandal.Name, role,
		),
	}
	if err := a.Mail.Send(r.Context(), msg); err != nil {
		a.Log.Warn().Err(err).Str("email", invitee.Email).Msg("invite email failed")
	}
	a.json(w, http.StatusCreated, map[string]any{
		"mandal_id": mandal.ID,
		"user_id":   invitee.ID,
		"status":    string(domain.MembershipPending),
	})
}

// MandalsGet returns the public profile of a mandal by slug.
func (a *App) MandalsGet(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.Mandals.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "mandal not found")
			return
		}
		a.Log.Error().Err(err).Msg("mandal fetch failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load mandal")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":       mandal.ID,
		"slug":     mandal.Slug,
		"name":     mandal.Name,
		"city":     mandal.City,
		"logo_url": mandal.LogoURL,
	})
}
