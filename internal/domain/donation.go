package domain

import "time"

// Donation represents a supporter contribution record.
type Donation struct {
	ID        string
	MandalID  string
	UserID    string
	DonorName string
	Amount    Amount
	Note      string
	CreatedAt time.Time
}
