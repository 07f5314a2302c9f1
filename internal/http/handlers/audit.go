package handlers

import (
	"net/http"
	"strings"
	"time"

	"mandalfund/internal/domain"
)

type auditRow struct {
	ID             string         `json:"id"`
	AllocationID   string         `json:"allocation_id"`
	UserEmail      string         `json:"user_email"`
	AdminEmail     string         `json:"admin_email"`
	Action         string         `json:"action"`
	PreviousAmount *domain.Amount `json:"previous_amount"`
	NewAmount      *domain.Amount `json:"new_amount"`
	Timestamp      time.Time      `json:"timestamp"`
}

// AuditAllocations lists the allocation audit trail, newest first, with
// optional query filters: admin_email, user_email, start, end (YYYY-MM-DD).
// Filtering happens in memory over the already-fetched rows; the trail for a
// single mandal stays small enough that this beats a filter matrix in SQL.
func (a *App) AuditAllocations(w http.ResponseWriter, r *http.Request) {
	mandal, err := a.currentMandal(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "no_mandal", "no active mandal for this account")
		return
	}
	logs, err := a.Allocations.ListLogs(r.Context(), mandal.ID)
	if err != nil {
		a.Log.Error().Err(err).Msg("audit trail fetch failed")
		a.error(w, http.StatusInternalServerError, "fetch_failed", "failed to load audit trail, please retry")
		return
	}

	emails := a.emailIndex(r)

	filter := auditFilter{
		adminEmail: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("admin_email"))),
		userEmail:  strings.ToLower(strings.TrimSpace(r.URL.Query().Get("user_email"))),
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "start must be YYYY-MM-DD")
			return
		}
		filter.start = t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "end must be YYYY-MM-DD")
			return
		}
		// end is inclusive of the whole day
		filter.end = t.Add(24 * time.Hour)
	}

	rows := make([]auditRow, 0, len(logs))
	for _, l := range logs {
		row := auditRow{
			ID:             l.ID,
			AllocationID:   l.AllocationID,
			UserEmail:      emails[l.UserID],
			AdminEmail:     emails[l.AdminID],
			Action:         string(l.Action),
			PreviousAmount: l.PreviousAmount,
			NewAmount:      l.NewAmount,
			Timestamp:      l.Timestamp,
		}
		if filter.matches(row) {
			rows = append(rows, row)
		}
	}
	a.json(w, http.StatusOK, map[string]any{"items": rows, "count": len(rows)})
}

type auditFilter struct {
	adminEmail string
	userEmail  string
	start      time.Time
	end        time.Time
}

func (f auditFilter) matches(row auditRow) bool {
	if f.adminEmail != "" && !strings.Contains(strings.ToLower(row.AdminEmail), f.adminEmail) {
		return false
	}
	if f.userEmail != "" && !strings.Contains(strings.ToLower(row.UserEmail), f.userEmail) {
		return false
	}
	if !f.start.IsZero() && row.Timestamp.Before(f.start) {
		return false
	}
	if !f.end.IsZero() && !row.Timestamp.Before(f.end) {
		return false
	}
	return true
}

// emailIndex maps user IDs to emails for display. A lookup failure degrades
// to blank emails rather than failing the audit page.
func (a *App) emailIndex(r *http.Request) map[string]string {
	users, err := a.Users.List(r.Context())
	if err != nil {
		a.Log.Warn().Err(err).Msg("user index fetch failed")
		return map[string]string{}
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails
}
