package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository resolves and assigns platform roles. RoleFor returns
// RoleUnknown without an error when the user has no role row.
type RoleRepository interface {
	RoleFor(ctx context.Context, userID string) (Role, error)
	Assign(ctx context.Context, userID string, role Role) error
}

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	ListByMandal(ctx context.Context, mandalID string) ([]Donation, error)
	ListByUser(ctx context.Context, mandalID, userID string) ([]Donation, error)
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository handles expense persistence.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	ListByMandal(ctx context.Context, mandalID string) ([]Expense, error)
	ListByUser(ctx context.Context, mandalID, userID string) ([]Expense, error)
	Delete(ctx context.Context, id string) error
}

// SponsorRepository handles the restricted sponsor ledger.
type SponsorRepository interface {
	Create(ctx context.Context, sponsor *SponsorContribution) error
	ListByMandal(ctx context.Context, mandalID string) ([]SponsorContribution, error)
	Update(ctx context.Context, sponsor *SponsorContribution) error
	Delete(ctx context.Context, id string) error
}

// AllocationRepository handles budget allocations and their audit trail.
type AllocationRepository interface {
	Create(ctx context.Context, allocation *Allocation) error
	GetByID(ctx context.Context, id string) (*Allocation, error)
	GetByUser(ctx context.Context, mandalID, userID string) (*Allocation, error)
	ListByMandal(ctx context.Context, mandalID string) ([]Allocation, error)
	Update(ctx context.Context, allocation *Allocation) error
	Delete(ctx context.Context, id string) error
	AppendLog(ctx context.Context, log *AllocationLog) error
	ListLogs(ctx context.Context, mandalID string) ([]AllocationLog, error)
}

// MandalRepository handles tenants and memberships.
type MandalRepository interface {
	Create(ctx context.Context, mandal *Mandal) error
	GetByID(ctx context.Context, id string) (*Mandal, error)
	GetBySlug(ctx context.Context, slug string) (*Mandal, error)
	List(ctx context.Context) ([]Mandal, error)
	Update(ctx context.Context, mandal *Mandal) error
	Delete(ctx context.Context, id string) error
	Membership(ctx context.Context, mandalID, userID string) (*MandalMembership, error)
	Members(ctx context.Context, mandalID string) ([]MandalMembership, error)
	AddMembership(ctx context.Context, membership *MandalMembership) error
	// PrimarySlugFor returns the slug of the user's active mandal, used to
	// scope legacy paths to the tenant. ErrNotMember when the user belongs
	// to none.
	PrimarySlugFor(ctx context.Context, userID string) (string, error)
}
