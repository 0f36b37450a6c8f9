package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

func TestRequireRole(t *testing.T) {
	db := dbtest.New(t)
	session.Init(nil)

	admin := &models.User{Username: "admin", Email: "admin@example.com", IsApproved: true}
	admin.SetRoles(models.RoleAdmin)
	require.NoError(t, db.Create(admin).Error)

	writer := &models.User{Username: "writer", Email: "writer@example.com", IsApproved: true}
	writer.SetRoles(models.RoleWriter)
	require.NoError(t, db.Create(writer).Error)

	for id, u := range map[string]*models.User{"admin-session": admin, "writer-session": writer} {
		require.NoError(t, (&session.Data{User: *u}).Write(id, time.Minute))
	}

	app := fiber.New()
	app.Get("/users", auth.RequireRole(auth.NewService(db), models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{name: "no cookie", wantStatus: fiber.StatusUnauthorized},
		{name: "unknown session", cookie: "nope", wantStatus: fiber.StatusUnauthorized},
		{name: "lacking role", cookie: "writer-session", wantStatus: fiber.StatusForbidden},
		{name: "admin", cookie: "admin-session", wantStatus: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/users", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", session.CookieName+"="+tt.cookie)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireRoleSeesRoleChanges(t *testing.T) {
	db := dbtest.New(t)
	session.Init(nil)

	u := &models.User{Username: "jane", Email: "jane@example.com", IsApproved: true}
	u.SetRoles(models.RoleAdmin)
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, (&session.Data{User: *u}).Write("jane-session", time.Minute))

	app := fiber.New()
	app.Get("/users", auth.RequireRole(auth.NewService(db), models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// the role is taken away by a later login
	require.NoError(t, db.Where("user_id = ?", u.ID).Delete(&models.UserRole{}).Error)

	req := httptest.NewRequest(fiber.MethodGet, "/users", nil)
	req.Header.Set("Cookie", session.CookieName+"=jane-session")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
