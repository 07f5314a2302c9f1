package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mandalfund/internal/domain"
)

type sponsorRequest struct {
	SponsorName string `json:"sponsor_name"`
	Amount      string `json:"amount"`
	Note        string `json:"note"`
}

func (a *App) SponsorsCreate(w http.ResponseWriter, r *http.Request) {
	var req sponsorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal")
		return
	}
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}

	sponsor := &domain.SponsorContribution{
		ID:          uuid.NewString(),
		MandalID:    mandal.ID,
		SponsorName: strings.TrimSpace(req.SponsorName),
		Amount:      amount,
		Note:        req.Note,
		RecordedBy:  a.identity(r).UserID,
	}
	if err := a.Sponsors.Create(r.Context(), sponsor); err != nil {
		a.Log.Error().Err(err).Msg("sponsor create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record sponsor")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": sponsor.ID})
}

func (a *App) SponsorsList(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	sponsors, err := a.Sponsors.ListByMandal(r.Context(), mandal.ID)
	if err != nil {
		a.Log.Error().Err(err).Msg("sponsor list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load sponsors, please retry")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": sponsors, "count": len(sponsors)})
}

func (a *App) SponsorsUpdate(w http.ResponseWriter, r *http.Request) {
	var req sponsorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal")
		return
	}
	sponsor := &domain.SponsorContribution{
		ID:          chi.URLParam(r, "id"),
		SponsorName: strings.TrimSpace(req.SponsorName),
		Amount:      amount,
		Note:        req.Note,
	}
	if err := a.Sponsors.Update(r.Context(), sponsor); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "sponsor entry not found")
			return
		}
		a.Log.Error().Err(err).Msg("sponsor update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update sponsor")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": sponsor.ID})
}

func (a *App) SponsorsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Sponsors.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "sponsor entry not found")
			return
		}
		a.Log.Error().Err(err).Msg("sponsor delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete sponsor")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}
