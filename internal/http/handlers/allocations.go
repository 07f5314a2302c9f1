package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mandalfund/internal/domain"
)

type allocationRequest struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

// AllocationsCreate grants a member a budget. Every mutation here and below
// appends an audit row; the trail is what /audit/allocations renders.
func (a *App) AllocationsCreate(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal")
		return
	}
	if req.UserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}

	allocation := &domain.Allocation{
		ID:       uuid.NewString(),
		MandalID: mandal.ID,
		UserID:   req.UserID,
		Amount:   amount,
	}
	if err := a.Allocations.Create(r.Context(), allocation); err != nil {
		a.Log.Error().Err(err).Msg("allocation create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to allocate funds")
		return
	}
	a.appendAllocationLog(r, allocation, domain.AllocationInsert, nil, &allocation.Amount)
	a.json(w, http.StatusCreated, map[string]any{"id": allocation.ID})
}

func (a *App) AllocationsUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal")
		return
	}

	existing, err := a.Allocations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "allocation not found")
			return
		}
		a.Log.Error().Err(err).Msg("allocation fetch failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update allocation")
		return
	}

	previous := existing.Amount
	existing.Amount = amount
	if err := a.Allocations.Update(r.Context(), existing); err != nil {
		a.Log.Error().Err(err).Msg("allocation update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update allocation")
		return
	}
	a.appendAllocationLog(r, existing, domain.AllocationUpdate, &previous, &amount)
	a.json(w, http.StatusOK, map[string]any{"id": existing.ID})
}

func (a *App) AllocationsDelete(w http.ResponseWriter, r *http.Request) {
	existing, err := a.Allocations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "allocation not found")
			return
		}
		a.Log.Error().Err(err).Msg("allocation fetch failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete allocation")
		return
	}
	if err := a.Allocations.Delete(r.Context(), existing.ID); err != nil {
		a.Log.Error().Err(err).Msg("allocation delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete allocation")
		return
	}
	a.appendAllocationLog(r, existing, domain.AllocationDelete, &existing.Amount, nil)
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *App) AllocationsList(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	allocations, err := a.Allocations.ListByMandal(r.Context(), mandal.ID)
	if err != nil {
		a.Log.Error().Err(err).Msg("allocation list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load allocations, please retry")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": allocations, "count": len(allocations)})
}

// appendAllocationLog writes the audit row. A failed write is logged loudly
// but does not roll back the mutation the admin already saw succeed.
func (a *App) appendAllocationLog(r *http.Request, allocation *domain.Allocation, action domain.AllocationAction, prev, next *domain.Amount) {
	entry := &domain.AllocationLog{
		ID:             uuid.NewString(),
		MandalID:       allocation.MandalID,
		AllocationID:   allocation.ID,
		UserID:         allocation.UserID,
		AdminID:        a.identity(r).UserID,
		Action:         action,
		PreviousAmount: prev,
		NewAmount:      next,
	}
	if err := a.Allocations.AppendLog(r.Context(), entry); err != nil {
		a.Log.Error().Err(err).
			Str("allocation_id", allocation.ID).
			Str("action", string(action)).
			Msg("allocation audit write failed")
	}
}
