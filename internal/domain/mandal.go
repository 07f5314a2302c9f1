package domain

import "time"

// Mandal is a festival committee, the multi-tenancy unit. Slug appears in
// tenant-scoped URLs.
type Mandal struct {
	ID        string
	Slug      string
	Name      string
	City      string
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipStatus enumerates the lifecycle of a mandal membership.
type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipPending MembershipStatus = "pending"
)

// MandalMembership ties a user to a mandal with a per-mandal role. Invited
// members start pending and become active on first login.
type MandalMembership struct {
	MandalID  string
	UserID    string
	Role      Role
	Status    MembershipStatus
	CreatedAt time.Time
}
