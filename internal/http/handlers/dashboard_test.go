package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandalfund/internal/access"
	"mandalfund/internal/domain"
)

func adminIdentity() access.Identity {
	return access.Identity{Authenticated: true, UserID: "admin1", Role: domain.RoleAdmin, MandalSlug: "shree-ganesh"}
}

func memberIdentity() access.Identity {
	return access.Identity{Authenticated: true, UserID: "vol1", Role: domain.RoleVolunteer, MandalSlug: "shree-ganesh"}
}

func TestDashboardInternal(t *testing.T) {
	app, donations, expenses, allocations, mandals := newTestApp()
	app.Users.(*fakeUsers).users = []domain.User{
		{ID: "vol1", Email: "vol1@example.com"},
		{ID: "vol2", Email: "vol2@example.com"},
		// belongs to a different mandal, must not appear in the usage table
		{ID: "other1", Email: "other1@example.com"},
	}
	mandals.memberships = []domain.MandalMembership{
		{MandalID: "m1", UserID: "vol1", Role: domain.RoleVolunteer, Status: domain.MembershipActive},
		{MandalID: "m1", UserID: "vol2", Role: domain.RoleVolunteer, Status: domain.MembershipActive},
		{MandalID: "m2", UserID: "other1", Role: domain.RoleVolunteer, Status: domain.MembershipActive},
	}
	day1 := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	donations.donations = []domain.Donation{
		{ID: "d1", MandalID: "m1", Amount: 100000, CreatedAt: day1},
	}
	expenses.expenses = []domain.Expense{
		{ID: "e1", MandalID: "m1", CreatedBy: "vol1", Amount: 40000, Date: day2},
	}
	app.Sponsors.(*fakeSponsors).sponsors = []domain.SponsorContribution{
		{ID: "s1", MandalID: "m1", Amount: 30000},
	}
	allocations.allocations = []domain.Allocation{
		{ID: "a1", MandalID: "m1", UserID: "vol1", Amount: 50000},
	}

	r := asIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/internal", nil), adminIdentity())
	w := doJSON(app.DashboardInternal, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Totals struct {
			Donations           int64  `json:"donations"`
			Expenses            int64  `json:"expenses"`
			Sponsors            int64  `json:"sponsors"`
			Balance             int64  `json:"balance"`
			BalanceWithSponsors int64  `json:"balance_with_sponsors"`
			BalanceFormatted    string `json:"balance_formatted"`
		} `json:"totals"`
		Trend []struct {
			Date      string `json:"date"`
			Donations int64  `json:"donations"`
			Expenses  int64  `json:"expenses"`
			Balance   int64  `json:"balance"`
		} `json:"trend"`
		UserUsage []struct {
			UserID    string `json:"user_id"`
			Allocated int64  `json:"allocated"`
			Spent     int64  `json:"spent"`
		} `json:"user_usage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, int64(100000), body.Totals.Donations)
	assert.Equal(t, int64(40000), body.Totals.Expenses)
	assert.Equal(t, int64(60000), body.Totals.Balance)
	assert.Equal(t, int64(90000), body.Totals.BalanceWithSponsors)
	assert.Equal(t, "₹600", body.Totals.BalanceFormatted)

	require.Len(t, body.Trend, 2)
	assert.Equal(t, "2024-09-01", body.Trend[0].Date)
	assert.Equal(t, int64(100000), body.Trend[0].Balance)
	assert.Equal(t, "2024-09-02", body.Trend[1].Date)
	assert.Equal(t, int64(60000), body.Trend[1].Balance)

	require.Len(t, body.UserUsage, 2)
	assert.Equal(t, int64(50000), body.UserUsage[0].Allocated)
	assert.Equal(t, int64(40000), body.UserUsage[0].Spent)
	assert.Equal(t, int64(0), body.UserUsage[1].Allocated)
	for _, u := range body.UserUsage {
		assert.NotEqual(t, "other1", u.UserID)
	}
}

func TestDashboardInternal_FetchFailure(t *testing.T) {
	app, donations, _, _, _ := newTestApp()
	donations.err = assert.AnError

	r := asIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/internal", nil), adminIdentity())
	w := doJSON(app.DashboardInternal, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "fetch_failed")
}

func TestDashboardUser(t *testing.T) {
	app, _, expenses, allocations, _ := newTestApp()
	allocations.allocations = []domain.Allocation{
		{ID: "a1", MandalID: "m1", UserID: "vol1", Amount: 50000},
	}
	expenses.expenses = []domain.Expense{
		{ID: "e1", MandalID: "m1", CreatedBy: "vol1", Amount: 20000},
	}

	r := asIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/user", nil), memberIdentity())
	w := doJSON(app.DashboardUser, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Allocated int64 `json:"allocated"`
		Spent     int64 `json:"spent"`
		Remaining int64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(50000), body.Allocated)
	assert.Equal(t, int64(20000), body.Spent)
	assert.Equal(t, int64(30000), body.Remaining)
}

func TestDashboardUser_NoAllocation(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	r := asIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/user", nil), memberIdentity())
	w := doJSON(app.DashboardUser, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Allocated int64 `json:"allocated"`
		Remaining int64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(0), body.Allocated)
	assert.Equal(t, int64(0), body.Remaining)
}

func TestDashboardPublic_AnonymousWithSlug(t *testing.T) {
	app, donations, _, _, _ := newTestApp()
	donations.donations = []domain.Donation{
		{ID: "d1", MandalID: "m1", Amount: 50000, CreatedAt: time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)},
	}

	// no identity attached: the public dashboard works without a session
	r := httptest.NewRequest(http.MethodGet, "/dashboard/public?slug=shree-ganesh", nil)
	w := doJSON(app.DashboardPublic, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total int64 `json:"total"`
		Trend []struct {
			Date string `json:"date"`
		} `json:"trend"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(50000), body.Total)
	require.Len(t, body.Trend, 1)
	assert.Equal(t, "2024-09-01", body.Trend[0].Date)
}

func TestDashboardPublic_MissingSlug(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	w := doJSON(app.DashboardPublic, httptest.NewRequest(http.MethodGet, "/dashboard/public", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardUser_NoMandal(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	id := memberIdentity()
	id.MandalSlug = ""
	r := asIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/user", nil), id)
	w := doJSON(app.DashboardUser, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no_mandal")
}
