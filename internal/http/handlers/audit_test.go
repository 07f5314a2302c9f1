package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandalfund/internal/domain"
)

func amountPtr(a domain.Amount) *domain.Amount { return &a }

func seedAuditApp() *App {
	app, _, _, allocations, _ := newTestApp()
	app.Users.(*fakeUsers).users = []domain.User{
		{ID: "admin1", Email: "admin@example.com"},
		{ID: "vol1", Email: "vol1@example.com"},
		{ID: "vol2", Email: "vol2@example.com"},
	}
	allocations.logs = []domain.AllocationLog{
		{
			ID: "l1", MandalID: "m1", AllocationID: "a1", UserID: "vol1", AdminID: "admin1",
			Action: domain.AllocationInsert, NewAmount: amountPtr(50000),
			Timestamp: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "l2", MandalID: "m1", AllocationID: "a1", UserID: "vol1", AdminID: "admin1",
			Action: domain.AllocationUpdate, PreviousAmount: amountPtr(50000), NewAmount: amountPtr(75000),
			Timestamp: time.Date(2024, 9, 3, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "l3", MandalID: "m1", AllocationID: "a2", UserID: "vol2", AdminID: "admin1",
			Action: domain.AllocationDelete, PreviousAmount: amountPtr(20000),
			Timestamp: time.Date(2024, 9, 5, 12, 0, 0, 0, time.UTC),
		},
	}
	return app
}

type auditResponse struct {
	Items []auditRow `json:"items"`
	Count int        `json:"count"`
}

func getAudit(t *testing.T, app *App, query string) auditResponse {
	t.Helper()
	r := asIdentity(httptest.NewRequest(http.MethodGet, "/audit/allocations"+query, nil), adminIdentity())
	w := doJSON(app.AuditAllocations, r)
	require.Equal(t, http.StatusOK, w.Code)

	var body auditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuditAllocations_JoinsEmails(t *testing.T) {
	app := seedAuditApp()

	body := getAudit(t, app, "")

	require.Equal(t, 3, body.Count)
	assert.Equal(t, "admin@example.com", body.Items[0].AdminEmail)
	assert.Equal(t, "vol1@example.com", body.Items[0].UserEmail)
}

func TestAuditAllocations_FilterByUserEmail(t *testing.T) {
	app := seedAuditApp()

	body := getAudit(t, app, "?user_email=vol2")

	require.Equal(t, 1, body.Count)
	assert.Equal(t, "l3", body.Items[0].ID)
	assert.Equal(t, "delete", body.Items[0].Action)
}

func TestAuditAllocations_FilterByDateRange(t *testing.T) {
	app := seedAuditApp()

	body := getAudit(t, app, "?start=2024-09-02&end=2024-09-04")

	require.Equal(t, 1, body.Count)
	assert.Equal(t, "l2", body.Items[0].ID)
}

func TestAuditAllocations_EndDateInclusive(t *testing.T) {
	app := seedAuditApp()

	body := getAudit(t, app, "?end=2024-09-05")

	assert.Equal(t, 3, body.Count)
}

func TestAuditAllocations_BadDate(t *testing.T) {
	app := seedAuditApp()

	r := asIdentity(httptest.NewRequest(http.MethodGet, "/audit/allocations?start=yesterday", nil), adminIdentity())
	w := doJSON(app.AuditAllocations, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditAllocations_UserIndexFailureDegrades(t *testing.T) {
	app := seedAuditApp()
	app.Users.(*fakeUsers).err = assert.AnError

	body := getAudit(t, app, "")

	require.Equal(t, 3, body.Count)
	assert.Empty(t, body.Items[0].AdminEmail)
}
