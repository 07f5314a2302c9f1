// Package report turns flat ledger record sequences into the derived shapes
// the dashboards render: per-day totals, trend series, and per-user fund
// usage. Everything here is a pure in-memory transform over already-fetched
// rows; fetching and rendering live elsewhere.
package report

import (
	"sort"
	"time"

	"mandalfund/internal/domain"
)

// DateKey is the calendar-day bucket key for a timestamp, in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// GroupByDate folds ledger entries into per-calendar-day amount sums.
// Entries without a usable timestamp (zero OccurredAt) are skipped: a record
// that cannot be placed on a day simply does not contribute to the trend.
// Empty input yields an empty, non-nil map.
func GroupByDate(entries []domain.LedgerEntry) map[string]domain.Amount {
	buckets := make(map[string]domain.Amount)
	for _, e := range entries {
		if e.OccurredAt.IsZero() {
			continue
		}
		buckets[DateKey(e.OccurredAt)] += e.Amount
	}
	return buckets
}

// TrendPoint is one day in the donations-vs-expenses series.
type TrendPoint struct {
	Date      string        `json:"date"`
	Donations domain.Amount `json:"donations"`
	Expenses  domain.Amount `json:"expenses"`
	Balance   domain.Amount `json:"balance,omitempty"`
}

type trendOptions struct {
	runningBalance bool
}

// TrendOption configures BuildTrendSeries.
type TrendOption func(*trendOptions)

// WithRunningBalance carries a cumulative donations-minus-expenses balance
// across the series, folded left to right over the sorted dates.
func WithRunningBalance() TrendOption {
	return func(o *trendOptions) { o.runningBalance = true }
}

// BuildTrendSeries merges two date-bucket maps into one ordered series. The
// result holds one point per date present in either map, sorted ascending
// (lexicographic order is chronological for ISO dates), with 0 filled in for
// a date missing on one side.
func BuildTrendSeries(donations, expenses map[string]domain.Amount, opts ...TrendOption) []TrendPoint {
	var o trendOptions
	for _, opt := range opts {
		opt(&o)
	}

	seen := make(map[string]struct{}, len(donations)+len(expenses))
	dates := make([]string, 0, len(donations)+len(expenses))
	for d := range donations {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	for d := range expenses {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	series := make([]TrendPoint, 0, len(dates))
	var balance domain.Amount
	for _, d := range dates {
		p := TrendPoint{Date: d, Donations: donations[d], Expenses: expenses[d]}
		if o.runningBalance {
			balance += p.Donations - p.Expenses
			p.Balance = balance
		}
		series = append(series, p)
	}
	return series
}

// UserUsage is the per-user allocated-vs-spent summary shown on the internal
// dashboard.
type UserUsage struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	Allocated domain.Amount `json:"allocated"`
	Spent     domain.Amount `json:"spent"`
}

// ComputeUserUsage joins allocations and expenses per user. Every user with
// an email appears in the result, including those with no activity; users
// without an email identifier are dropped, matching the dashboard's display
// contract. Output preserves the input user order.
func ComputeUserUsage(users []domain.User, allocations []domain.Allocation, expenses []domain.Expense) []UserUsage {
	allocated := make(map[string]domain.Amount, len(allocations))
	for _, a := range allocations {
		allocated[a.UserID] += a.Amount
	}
	spent := make(map[string]domain.Amount, len(expenses))
	for _, e := range expenses {
		spent[e.CreatedBy] += e.Amount
	}

	usage := make([]UserUsage, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		usage = append(usage, UserUsage{
			UserID:    u.ID,
			Email:     u.Email,
			Allocated: allocated[u.ID],
			Spent:     spent[u.ID],
		})
	}
	return usage
}

// Totals carries the plain full-ledger sums for a mandal.
type Totals struct {
	Donations domain.Amount `json:"donations"`
	Expenses  domain.Amount `json:"expenses"`
	Sponsors  domain.Amount `json:"sponsors"`
}

// SumTotals sums each record sequence without bucketing.
func SumTotals(donations []domain.Donation, expenses []domain.Expense, sponsors []domain.SponsorContribution) Totals {
	var t Totals
	for _, d := range donations {
		t.Donations += d.Amount
	}
	for _, e := range expenses {
		t.Expenses += e.Amount
	}
	for _, s := range sponsors {
		t.Sponsors += s.Amount
	}
	return t
}

// Balance is donations minus expenses. Sponsor money stays out unless the
// caller opts in via BalanceWithSponsors.
func (t Totals) Balance() domain.Amount {
	return t.Donations - t.Expenses
}

// BalanceWithSponsors folds sponsor contributions into the balance.
func (t Totals) BalanceWithSponsors() domain.Amount {
	return t.Donations + t.Sponsors - t.Expenses
}
