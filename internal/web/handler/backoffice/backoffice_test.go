package backoffice

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/handlertest"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

type fixture struct {
	app      *fiber.App
	sessions map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	handlertest.InitSessionStore()

	db := dbtest.New(t)
	lp := auth.NewLocalProvider(db)

	f := &fixture{app: handlertest.NewApp(), sessions: map[string]string{}}

	for username, role := range map[string]string{"alice": models.RoleAdmin, "bob": models.RoleEditor} {
		u, err := lp.CreateUser(context.Background(), username, username+"@example.com", "secret", username, role)
		require.NoError(t, err)

		sessionID, err := session.GenerateSessionID()
		require.NoError(t, err)
		require.NoError(t, (&session.Data{User: *u, LoginProvider: "Backoffice.AzureAD"}).Write(sessionID, time.Minute))

		f.sessions[username] = sessionID
	}

	var s Service
	s.Init(f.app, handlertest.NewConfig(), auth.NewService(db))

	return f
}

func TestIndex(t *testing.T) {
	f := newFixture(t)

	resp := handlertest.Get(t, f.app, Path, f.sessions["bob"])
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := handlertest.Body(t, resp)
	assert.Contains(t, body, TemplateIndex)
	assert.Contains(t, body, "LoginProvider=Backoffice.AzureAD")
	assert.Contains(t, body, "Roles=[editor]")
	assert.NotContains(t, body, UsersPath)
}

func TestIndexWithoutSession(t *testing.T) {
	f := newFixture(t)

	resp := handlertest.Get(t, f.app, Path, "")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get("Location"))
}

func TestUsers(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		sessionID  string
		wantStatus int
	}{
		{name: "admin", sessionID: f.sessions["alice"], wantStatus: http.StatusOK},
		{name: "editor", sessionID: f.sessions["bob"], wantStatus: http.StatusForbidden},
		{name: "anonymous", sessionID: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlertest.Get(t, f.app, UsersPath, tt.sessionID)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus != http.StatusOK {
				return
			}

			body := handlertest.Body(t, resp)
			assert.Contains(t, body, TemplateUsers)
			assert.Contains(t, body, "alice@example.com")
			assert.Contains(t, body, "bob@example.com")
			assert.Contains(t, body, UsersPath)
		})
	}
}

func TestPaginate(t *testing.T) {
	users := make([]models.User, 30)
	for i := range users {
		users[i] = models.User{ID: uint64(i + 1), Username: fmt.Sprintf("user%02d", i)}
	}

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantPage int
		wantLen  int
		wantPrev bool
		wantNext bool
	}{
		{name: "first page", page: 1, pageSize: 25, wantPage: 1, wantLen: 25, wantNext: true},
		{name: "last page", page: 2, pageSize: 25, wantPage: 2, wantLen: 5, wantPrev: true},
		{name: "page beyond end", page: 9, pageSize: 25, wantPage: 2, wantLen: 5, wantPrev: true},
		{name: "page below one", page: 0, pageSize: 10, wantPage: 1, wantLen: 10, wantNext: true},
		{name: "invalid page size", page: 1, pageSize: 1000, wantPage: 1, wantLen: 25, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paginate(users, tt.page, tt.pageSize)

			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Len(t, p.Users, tt.wantLen)
			assert.Equal(t, tt.wantPrev, p.HasPrevPage)
			assert.Equal(t, tt.wantNext, p.HasNextPage)
			assert.Equal(t, 30, p.TotalItems)
		})
	}

	empty := paginate(nil, 1, 25)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Users)
}
