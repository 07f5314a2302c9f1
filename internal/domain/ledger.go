package domain

import "time"

// LedgerEntry is the common projection of every ledger record kind consumed
// by the reporting code: who it belongs to, how much, and when it occurred.
// A zero OccurredAt marks a record without a usable timestamp; date-bucketed
// aggregation skips such entries.
type LedgerEntry struct {
	Owner      string
	Amount     Amount
	OccurredAt time.Time
}

// Ledger projects a donation. Donations bucket on their creation time.
func (d Donation) Ledger() LedgerEntry {
	return LedgerEntry{Owner: d.UserID, Amount: d.Amount, OccurredAt: d.CreatedAt}
}

// Ledger projects an expense. Expenses bucket on their expense date, not on
// the row creation time.
func (e Expense) Ledger() LedgerEntry {
	return LedgerEntry{Owner: e.CreatedBy, Amount: e.Amount, OccurredAt: e.Date}
}

// Ledger projects a sponsor contribution.
func (s SponsorContribution) Ledger() LedgerEntry {
	return LedgerEntry{Owner: s.RecordedBy, Amount: s.Amount, OccurredAt: s.CreatedAt}
}

// Ledger projects an allocation.
func (a Allocation) Ledger() LedgerEntry {
	return LedgerEntry{Owner: a.UserID, Amount: a.Amount, OccurredAt: a.CreatedAt}
}

// Ledgers maps a record slice onto its ledger projections.
func Ledgers[T interface{ Ledger() LedgerEntry }](records []T) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(records))
	for _, r := range records {
		out = append(out, r.Ledger())
	}
	return out
}
