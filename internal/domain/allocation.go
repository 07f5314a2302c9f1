package domain

import "time"

// Allocation grants a member a spending budget out of mandal funds.
type Allocation struct {
	ID        string
	MandalID  string
	UserID    string
	Amount    Amount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllocationAction enumerates the mutations recorded in the allocation audit
// trail.
type AllocationAction string

const (
	AllocationInsert AllocationAction = "insert"
	AllocationUpdate AllocationAction = "update"
	AllocationDelete AllocationAction = "delete"
)

// AllocationLog is one audit-trail row. Every allocation mutation writes one,
// capturing who changed whose budget and the before/after amounts. Previous
// and New are nil when the action has no such side (insert has no previous,
// delete has no new).
type AllocationLog struct {
	ID             string
	MandalID       string
	AllocationID   string
	UserID         string
	AdminID        string
	Action         AllocationAction
	PreviousAmount *Amount
	NewAmount      *Amount
	Timestamp      time.Time
}
