package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog"

	"mandalfund/internal/access"
	"mandalfund/internal/domain"
	"mandalfund/internal/middleware"
)

// In-memory repository fakes. Each holds its rows in a slice and fails when
// its err field is set, which is enough to drive the handlers through both
// paths without a database.

type fakeUsers struct {
	users []domain.User
	err   error
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	for i := range f.users {
		if f.users[i].ID == u.ID {
			f.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeRoles struct {
	roles map[string]domain.Role
}

func (f *fakeRoles) RoleFor(_ context.Context, userID string) (domain.Role, error) {
	return f.roles[userID], nil
}

func (f *fakeRoles) Assign(_ context.Context, userID string, role domain.Role) error {
	if f.roles == nil {
		f.roles = map[string]domain.Role{}
	}
	f.roles[userID] = role
	return nil
}

type fakeDonations struct {
	donations []domain.Donation
	err       error
}

func (f *fakeDonations) Create(_ context.Context, d *domain.Donation) error {
	if f.err != nil {
		return f.err
	}
	f.donations = append(f.donations, *d)
	return nil
}

func (f *fakeDonations) ListByMandal(_ context.Context, mandalID string) ([]domain.Donation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Donation
	for _, d := range f.donations {
		if d.MandalID == mandalID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDonations) ListByUser(_ context.Context, mandalID, userID string) ([]domain.Donation, error) {
	var out []domain.Donation
	for _, d := range f.donations {
		if d.MandalID == mandalID && d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, f.err
}

func (f *fakeDonations) Delete(_ context.Context, id string) error { return f.err }

type fakeExpenses struct {
	expenses []domain.Expense
	err      error
}

func (f *fakeExpenses) Create(_ context.Context, e *domain.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.expenses = append(f.expenses, *e)
	return nil
}

func (f *fakeExpenses) ListByMandal(_ context.Context, mandalID string) ([]domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Expense
	for _, e := range f.expenses {
		if e.MandalID == mandalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenses) ListByUser(_ context.Context, mandalID, userID string) ([]domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Expense
	for _, e := range f.expenses {
		if e.MandalID == mandalID && e.CreatedBy == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenses) Delete(_ context.Context, id string) error { return f.err }

type fakeSponsors struct {
	sponsors []domain.SponsorContribution
	err      error
}

func (f *fakeSponsors) Create(_ context.Context, s *domain.SponsorContribution) error {
	if f.err != nil {
		return f.err
	}
	f.sponsors = append(f.sponsors, *s)
	return nil
}

func (f *fakeSponsors) ListByMandal(_ context.Context, mandalID string) ([]domain.SponsorContribution, error) {
	return f.sponsors, f.err
}

func (f *fakeSponsors) Update(_ context.Context, s *domain.SponsorContribution) error { return f.err }
func (f *fakeSponsors) Delete(_ context.Context, id string) error                     { return f.err }

type fakeAllocations struct {
	allocations []domain.Allocation
	logs        []domain.AllocationLog
	err         error
}

func (f *fakeAllocations) Create(_ context.Context, a *domain.Allocation) error {
	if f.err != nil {
		return f.err
	}
	f.allocations = append(f.allocations, *a)
	return nil
}

func (f *fakeAllocations) GetByID(_ context.Context, id string) (*domain.Allocation, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.allocations {
		if f.allocations[i].ID == id {
			a := f.allocations[i]
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAllocations) GetByUser(_ context.Context, mandalID, userID string) (*domain.Allocation, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.allocations {
		if f.allocations[i].MandalID == mandalID && f.allocations[i].UserID == userID {
			a := f.allocations[i]
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAllocations) ListByMandal(_ context.Context, mandalID string) ([]domain.Allocation, error) {
	return f.allocations, f.err
}

func (f *fakeAllocations) Update(_ context.Context, a *domain.Allocation) error {
	for i := range f.allocations {
		if f.allocations[i].ID == a.ID {
			f.allocations[i] = *a
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAllocations) Delete(_ context.Context, id string) error {
	for i := range f.allocations {
		if f.allocations[i].ID == id {
			f.allocations = append(f.allocations[:i], f.allocations[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAllocations) AppendLog(_ context.Context, l *domain.AllocationLog) error {
	f.logs = append(f.logs, *l)
	return nil
}

func (f *fakeAllocations) ListLogs(_ context.Context, mandalID string) ([]domain.AllocationLog, error) {
	return f.logs, f.err
}

type fakeMandals struct {
	mandals     []domain.Mandal
	memberships []domain.MandalMembership
	err         error
}

func (f *fakeMandals) Create(_ context.Context, m *domain.Mandal) error {
	if f.err != nil {
		return f.err
	}
	f.mandals = append(f.mandals, *m)
	return nil
}

func (f *fakeMandals) GetByID(_ context.Context, id string) (*domain.Mandal, error) {
	for i := range f.mandals {
		if f.mandals[i].ID == id {
			m := f.mandals[i]
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMandals) GetBySlug(_ context.Context, slug string) (*domain.Mandal, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.mandals {
		if f.mandals[i].Slug == slug {
			m := f.mandals[i]
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMandals) List(_ context.Context) ([]domain.Mandal, error) {
	return f.mandals, f.err
}

func (f *fakeMandals) Update(_ context.Context, m *domain.Mandal) error {
	for i := range f.mandals {
		if f.mandals[i].ID == m.ID {
			f.mandals[i] = *m
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMandals) Delete(_ context.Context, id string) error { return f.err }

func (f *fakeMandals) Membership(_ context.Context, mandalID, userID string) (*domain.MandalMembership, error) {
	for i := range f.memberships {
		if f.memberships[i].MandalID == mandalID && f.memberships[i].UserID == userID {
			m := f.memberships[i]
			return &m, nil
		}
	}
	return nil, domain.ErrNotMember
}

func (f *fakeMandals) Members(_ context.Context, mandalID string) ([]domain.MandalMembership, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.MandalMembership
	for _, m := range f.memberships {
		if m.MandalID == mandalID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMandals) AddMembership(_ context.Context, m *domain.MandalMembership) error {
	f.memberships = append(f.memberships, *m)
	return nil
}

func (f *fakeMandals) PrimarySlugFor(_ context.Context, userID string) (string, error) {
	for _, m := range f.memberships {
		if m.UserID == userID && m.Status == domain.MembershipActive {
			mandal, err := f.GetByID(context.Background(), m.MandalID)
			if err != nil {
				continue
			}
			return mandal.Slug, nil
		}
	}
	return "", domain.ErrNotMember
}

// asIdentity attaches a resolved identity to the request, the way the session
// middleware would.
func asIdentity(r *http.Request, id access.Identity) *http.Request {
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), id))
}

func newTestApp() (*App, *fakeDonations, *fakeExpenses, *fakeAllocations, *fakeMandals) {
	donations := &fakeDonations{}
	expenses := &fakeExpenses{}
	allocations := &fakeAllocations{}
	mandals := &fakeMandals{
		mandals: []domain.Mandal{{ID: "m1", Slug: "shree-ganesh", Name: "Shree Ganesh Mandal"}},
	}
	app := &App{
		Log:         zerolog.Nop(),
		Users:       &fakeUsers{},
		Roles:       &fakeRoles{},
		Donations:   donations,
		Expenses:    expenses,
		Sponsors:    &fakeSponsors{},
		Allocations: allocations,
		Mandals:     mandals,
	}
	return app, donations, expenses, allocations, mandals
}

func doJSON(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}
