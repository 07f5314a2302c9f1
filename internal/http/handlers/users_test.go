package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandalfund/internal/domain"
)

func TestUsersList_ResolvesRoles(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	app.Users.(*fakeUsers).users = []domain.User{
		{ID: "u1", Email: "boss@example.com"},
		{ID: "u2", Email: "helper@example.com"},
	}
	app.Roles.(*fakeRoles).roles = map[string]domain.Role{
		"u1": domain.RoleAdmin,
		"u2": domain.RoleVolunteer,
	}

	r := asIdentity(httptest.NewRequest(http.MethodGet, "/users/manage", nil), adminIdentity())
	w := doJSON(app.UsersList, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []userView `json:"items"`
		Count int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "admin", body.Items[0].Role)
	assert.Equal(t, "volunteer", body.Items[1].Role)
}

func TestUsersCreate(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	body := strings.NewReader(`{"email":"New@Example.com","password":"long-enough","full_name":"New Helper","role":"volunteer"}`)
	r := asIdentity(httptest.NewRequest(http.MethodPost, "/users/manage", body), adminIdentity())
	w := doJSON(app.UsersCreate, r)

	require.Equal(t, http.StatusCreated, w.Code)

	users := app.Users.(*fakeUsers).users
	require.Len(t, users, 1)
	assert.Equal(t, "new@example.com", users[0].Email)
	assert.NotEmpty(t, users[0].PasswordHash)

	role, err := app.Roles.RoleFor(context.Background(), users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, role)
}

func TestUsersCreate_RejectsUnknownRole(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	body := strings.NewReader(`{"email":"new@example.com","password":"long-enough","role":"superuser"}`)
	r := asIdentity(httptest.NewRequest(http.MethodPost, "/users/manage", body), adminIdentity())
	w := doJSON(app.UsersCreate, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, app.Users.(*fakeUsers).users)
}

func TestUsersUpdate_ReassignsRole(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	app.Users.(*fakeUsers).users = []domain.User{{ID: "u1", Email: "helper@example.com"}}

	body := strings.NewReader(`{"role":"admin"}`)
	r := asIdentity(httptest.NewRequest(http.MethodPut, "/users/manage/u1", body), adminIdentity())
	w := doJSON(app.UsersUpdate, withURLParam(r, "id", "u1"))

	require.Equal(t, http.StatusOK, w.Code)
	role, err := app.Roles.RoleFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestUsersUpdate_NotFound(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	body := strings.NewReader(`{"full_name":"Ghost"}`)
	r := asIdentity(httptest.NewRequest(http.MethodPut, "/users/manage/ghost", body), adminIdentity())
	w := doJSON(app.UsersUpdate, withURLParam(r, "id", "ghost"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersDelete_BlocksSelfDelete(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	app.Users.(*fakeUsers).users = []domain.User{{ID: "admin1", Email: "boss@example.com"}}

	r := asIdentity(httptest.NewRequest(http.MethodDelete, "/users/manage/admin1", nil), adminIdentity())
	w := doJSON(app.UsersDelete, withURLParam(r, "id", "admin1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, app.Users.(*fakeUsers).users, 1)
}

func TestUsersDelete(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	app.Users.(*fakeUsers).users = []domain.User{{ID: "u2", Email: "helper@example.com"}}

	r := asIdentity(httptest.NewRequest(http.MethodDelete, "/users/manage/u2", nil), adminIdentity())
	w := doJSON(app.UsersDelete, withURLParam(r, "id", "u2"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, app.Users.(*fakeUsers).users)
}
