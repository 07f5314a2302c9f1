package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mandalfund/internal/domain"
	"mandalfund/internal/middleware"
)

type donationRequest struct {
	Amount    string `json:"amount"`
	DonorName string `json:"donor_name"`
	Note      string `json:"note"`
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		// malformed amounts are rejected here, never coerced to zero
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal")
		return
	}
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}

	donation := &domain.Donation{
		ID:        uuid.NewString(),
		MandalID:  mandal.ID,
		UserID:    a.identity(r).UserID,
		DonorName: strings.TrimSpace(req.DonorName),
		Amount:    amount,
		Note:      req.Note,
	}
	if err := a.Donations.Create(r.Context(), donation); err != nil {
		a.Log.Error().Err(err).Msg("donation create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": donation.ID})
}

// DonationsList returns the mandal's donation ledger.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	donations, err := a.Donations.ListByMandal(r.Context(), mandal.ID)
	if err != nil {
		a.Log.Error().Err(err).Msg("donation list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load donations, please retry")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	items := make([]map[string]any, 0, len(donations))
	for _, d := range donations {
		items = append(items, map[string]any{
			"id":               d.ID,
			"donor_name":       d.DonorName,
			"amount":           d.Amount,
			"amount_formatted": domain.FormatINR(d.Amount, locale),
			"note":             d.Note,
			"created_at":       d.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// DonationsMine returns the caller's own donations.
func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	donations, err := a.Donations.ListByUser(r.Context(), mandal.ID, a.identity(r).UserID)
	if err != nil {
		a.Log.Error().Err(err).Msg("donation list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load donations, please retry")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": donations, "count": len(donations)})
}
