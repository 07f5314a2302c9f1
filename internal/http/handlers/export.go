package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mandalfund/internal/export"
)

// ExportLedger streams a ledger as a CSV download. {ledger} is "donations"
// or "expenses".
func (a *App) ExportLedger(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}

	ledger := chi.URLParam(r, "ledger")
	filename := fmt.Sprintf("%s-%s-%s.csv", mandal.Slug, ledger, time.Now().UTC().Format("20060102"))

	switch ledger {
	case "donations":
		donations, err := a.Donations.ListByMandal(r.Context(), mandal.ID)
		if err != nil {
			a.Log.Error().Err(err).Msg("donation fetch failed")
			a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to export, please retry")
			return
		}
		setCSVHeaders(w, filename)
		if err := export.Donations(w, donations); err != nil {
			a.Log.Error().Err(err).Msg("csv export failed")
		}
	case "expenses":
		expenses, err := a.Expenses.ListByMandal(r.Context(), mandal.ID)
		if err != nil {
			a.Log.Error().Err(err).Msg("expense fetch failed")
			a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to export, please retry")
			return
		}
		setCSVHeaders(w, filename)
		if err := export.Expenses(w, expenses); err != nil {
			a.Log.Error().Err(err).Msg("csv export failed")
		}
	default:
		a.error(w, http.StatusNotFound, "not_found", "unknown ledger, use donations or expenses")
	}
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
