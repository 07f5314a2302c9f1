// Package export renders ledgers as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"mandalfund/internal/domain"
)

// Donations writes a donation ledger as CSV. Amounts are exported in rupees
// with two decimals so spreadsheets read them as numbers.
func Donations(w io.Writer, donations []domain.Donation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "donor", "amount", "note", "created_at"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, d := range donations {
		created := ""
		if !d.CreatedAt.IsZero() {
			created = d.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		}
		row := []string{d.ID, d.DonorName, rupees(d.Amount), d.Note, created}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Expenses writes an expense ledger as CSV.
func Expenses(w io.Writer, expenses []domain.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "category", "amount", "description", "date", "receipt_url"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.UTC().Format("2006-01-02")
		}
		row := []string{e.ID, e.Category, rupees(e.Amount), e.Description, date, e.ReceiptURL}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func rupees(a domain.Amount) string {
	return strconv.FormatFloat(a.Rupees(), 'f', 2, 64)
}
