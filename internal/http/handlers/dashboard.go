package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"mandalfund/internal/domain"
	"mandalfund/internal/middleware"
	"mandalfund/internal/report"
)

// DashboardInternal is the admin overview: full totals including sponsors,
// the donations-vs-expenses trend with a running balance, and per-user fund
// usage. The five ledgers are fetched concurrently; the aggregation itself is
// pure and timed.
func (a *App) DashboardInternal(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}

	var (
		donations   []domain.Donation
		expenses    []domain.Expense
		sponsors    []domain.SponsorContribution
		users       []domain.User
		allocations []domain.Allocation
		members     []domain.MandalMembership
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		donations, err = a.Donations.ListByMandal(ctx, mandal.ID)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = a.Expenses.ListByMandal(ctx, mandal.ID)
		return err
	})
	g.Go(func() (err error) {
		sponsors, err = a.Sponsors.ListByMandal(ctx, mandal.ID)
		return err
	})
	g.Go(func() (err error) {
		users, err = a.Users.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		allocations, err = a.Allocations.ListByMandal(ctx, mandal.ID)
		return err
	})
	g.Go(func() (err error) {
		members, err = a.Mandals.Members(ctx, mandal.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		a.Log.Error().Err(err).Msg("dashboard fetch failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load dashboard data, please retry")
		return
	}

	start := time.Now()
	totals := report.SumTotals(donations, expenses, sponsors)
	trend := report.BuildTrendSeries(
		report.GroupByDate(domain.Ledgers(donations)),
		report.GroupByDate(domain.Ledgers(expenses)),
		report.WithRunningBalance(),
	)
	// only this mandal's members feed the usage table; other tenants'
	// accounts must not surface here even with zero activity
	usage := report.ComputeUserUsage(filterMembers(users, members), allocations, expenses)
	a.Metrics.ObserveAggregate(time.Since(start))

	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{
		"totals": map[string]any{
			"donations":             totals.Donations,
			"expenses":              totals.Expenses,
			"sponsors":              totals.Sponsors,
			"balance":               totals.Balance(),
			"balance_with_sponsors": totals.BalanceWithSponsors(),
			"donations_formatted":   domain.FormatINR(totals.Donations, locale),
			"expenses_formatted":    domain.FormatINR(totals.Expenses, locale),
			"balance_formatted":     domain.FormatINR(totals.Balance(), locale),
		},
		"trend":      trend,
		"user_usage": usage,
	})
}

// filterMembers keeps only the users holding a membership in the mandal,
// preserving zero-activity members.
func filterMembers(users []domain.User, members []domain.MandalMembership) []domain.User {
	ids := make(map[string]struct{}, len(members))
	for _, m := range members {
		ids[m.UserID] = struct{}{}
	}
	var out []domain.User
	for _, u := range users {
		if _, ok := ids[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// DashboardUser is the member view: own allocation, own spend, and the
// remaining budget, plus the member's expense list.
func (a *App) DashboardUser(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	userID := a.identity(r).UserID

	var allocated domain.Amount
	allocation, err := a.Allocations.GetByUser(r.Context(), mandal.ID, userID)
	switch {
	case err == nil:
		allocated = allocation.Amount
	case errors.Is(err, domain.ErrNotFound):
		// no allocation yet reads as a zero budget
	default:
		a.Log.Error().Err(err).Msg("allocation fetch failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load dashboard data, please retry")
		return
	}

	expenses, err := a.Expenses.ListByUser(r.Context(), mandal.ID, userID)
	if err != nil {
		a.Log.Error().Err(err).Msg("expense fetch failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load dashboard data, please retry")
		return
	}
	var spent domain.Amount
	for _, e := range expenses {
		spent += e.Amount
	}

	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{
		"allocated":           allocated,
		"spent":               spent,
		"remaining":           allocated - spent,
		"allocated_formatted": domain.FormatINR(allocated, locale),
		"spent_formatted":     domain.FormatINR(spent, locale),
		"expenses":            expenses,
	})
}

// DashboardPublic is the donor-facing summary for a mandal: donation total
// and the daily trend. No expense detail and no sponsor ledger leaks here.
// Served at /mandal/{slug}/dashboard and at /dashboard/public?slug=, where
// anonymous visitors have no session to resolve a tenant from.
func (a *App) DashboardPublic(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slug = r.URL.Query().Get("slug")
	}
	if slug == "" {
		slug = a.identity(r).MandalSlug
	}
	if slug == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "slug is required")
		return
	}
	mandal, err := a.Mandals.GetBySlug(r.Context(), slug)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "mandal not found")
		return
	}
	donations, err := a.Donations.ListByMandal(r.Context(), mandal.ID)
	if err != nil {
		a.Log.Error().Err(err).Msg("donation fetch failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load dashboard data, please retry")
		return
	}

	var total domain.Amount
	for _, d := range donations {
		total += d.Amount
	}
	trend := report.BuildTrendSeries(report.GroupByDate(domain.Ledgers(donations)), nil)

	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{
		"mandal":          map[string]string{"name": mandal.Name, "slug": mandal.Slug, "city": mandal.City},
		"total":           total,
		"total_formatted": domain.FormatINR(total, locale),
		"trend":           trend,
	})
}
