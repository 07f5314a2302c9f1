package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mandalfund/internal/auth"
	"mandalfund/internal/domain"
)

type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UsersList returns all accounts with their resolved platform role.
func (a *App) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.List(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("user list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load users, please retry")
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		role, err := a.Roles.RoleFor(r.Context(), u.ID)
		if err != nil {
			a.Log.Warn().Err(err).Str("user_id", u.ID).Msg("role lookup failed")
			role = domain.RoleUnknown
		}
		views = append(views, userView{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: role.String()})
	}
	a.json(w, http.StatusOK, map[string]any{"items": views, "count": len(views)})
}

type userCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UsersCreate provisions an account directly, admin-only.
func (a *App) UsersCreate(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		a.error(w, http.StatusBadRequest, "bad_request", "email and a password of at least 8 characters are required")
		return
	}
	role := domain.ParseRole(req.Role)
	if role == domain.RoleUnknown {
		a.error(w, http.StatusBadRequest, "bad_request", "role must be admin or volunteer")
		return
	}

	if _, err := a.Users.GetByEmail(r.Context(), req.Email); err == nil {
		a.error(w, http.StatusConflict, "conflict", "email already registered")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		a.Log.Error().Err(err).Msg("user lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create user")
		return
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		a.Log.Error().Err(err).Msg("user create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create user")
		return
	}
	if err := a.Roles.Assign(r.Context(), user.ID, role); err != nil {
		a.Log.Error().Err(err).Str("user_id", user.ID).Msg("role assignment failed")
		a.error(w, http.StatusInternalServerError, "internal", "user created but role assignment failed")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email, "role": role.String()})
}

type userUpdateRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
}

// UsersUpdate edits a user's name or reassigns their platform role.
func (a *App) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	user, err := a.Users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Log.Error().Err(err).Msg("user fetch failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
		if err := a.Users.Update(r.Context(), user); err != nil {
			a.Log.Error().Err(err).Msg("user update failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
			return
		}
	}
	if req.Role != nil {
		role := domain.ParseRole(*req.Role)
		if role == domain.RoleUnknown {
			a.error(w, http.StatusBadRequest, "bad_request", "role must be admin or volunteer")
			return
		}
		if err := a.Roles.Assign(r.Context(), user.ID, role); err != nil {
			a.Log.Error().Err(err).Str("user_id", user.ID).Msg("role assignment failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update role")
			return
		}
	}
	a.json(w, http.StatusOK, map[string]any{"id": user.ID})
}

// UsersDelete removes an account. Admins cannot delete themselves so a mandal
// is never left without its last admin by accident.
func (a *App) UsersDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == a.identity(r).UserID {
		a.error(w, http.StatusBadRequest, "bad_request", "cannot delete your own account")
		return
	}
	if err := a.Users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Log.Error().Err(err).Msg("user delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete user")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}
