package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mandalfund/internal/domain"
)

const maxReceiptBytes = 5 << 20

// ExpensesCreate records an expense from a multipart form so a receipt image
// can ride along. Fields: amount, category, description, date (YYYY-MM-DD),
// optional file field "receipt".
func (a *App) ExpensesCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	amount, err := domain.ParseAmount(r.FormValue("amount"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal")
		return
	}
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}

	expense := &domain.Expense{
		ID:          uuid.NewString(),
		MandalID:    mandal.ID,
		CreatedBy:   a.identity(r).UserID,
		Amount:      amount,
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if raw := r.FormValue("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
			return
		}
		expense.Date = date
	}

	if url, err := a.storeReceipt(r, mandal.ID, expense.ID); err != nil {
		a.Log.Error().Err(err).Msg("receipt upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store receipt")
		return
	} else {
		expense.ReceiptURL = url
	}

	if err := a.Expenses.Create(r.Context(), expense); err != nil {
		a.Log.Error().Err(err).Msg("expense create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record expense")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": expense.ID, "receipt_url": expense.ReceiptURL})
}

// storeReceipt saves an optional receipt upload and returns its public URL,
// or "" when the form carries no receipt.
func (a *App) storeReceipt(r *http.Request, mandalID, expenseID string) (string, error) {
	file, header, err := r.FormFile("receipt")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("receipts/%s/%s%s", mandalID, expenseID, filepath.Ext(header.Filename))
	return a.Files.Write(r.Context(), key, data)
}

// ExpensesList returns the mandal's expense ledger.
func (a *App) ExpensesList(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	expenses, err := a.Expenses.ListByMandal(r.Context(), mandal.ID)
	if err != nil {
		a.Log.Error().Err(err).Msg("expense list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load expenses, please retry")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": expenses, "count": len(expenses)})
}

// ExpensesMine returns the caller's own expenses.
func (a *App) ExpensesMine(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	expenses, err := a.Expenses.ListByUser(r.Context(), mandal.ID, a.identity(r).UserID)
	if err != nil {
		a.Log.Error().Err(err).Msg("expense list failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load expenses, please retry")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": expenses, "count": len(expenses)})
}
