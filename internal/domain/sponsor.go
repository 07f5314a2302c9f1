package domain

import "time"

// SponsorContribution is a sponsor entry from the restricted ledger. Sponsor
// money is tracked separately and only folded into the balance when a caller
// opts in.
type SponsorContribution struct {
	ID          string
	MandalID    string
	SponsorName string
	Amount      Amount
	Note        string
	RecordedBy  string
	CreatedAt   time.Time
}
