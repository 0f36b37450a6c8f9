package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/handlertest"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/login"
	authmiddleware "github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

func newApp(publicPaths ...string) *fiber.App {
	app := handlertest.NewApp()
	app.Use(authmiddleware.New(authmiddleware.Config{
		PublicPaths: append([]string{"/signin-oidc", "/metrics"}, publicPaths...),
		HomePath:    "/backoffice",
	}))

	ok := func(c *fiber.Ctx) error {
		if data, found := c.Locals(handler.LocalsCurrentUser).(session.Data); found {
			return c.SendString("user=" + data.User.Username)
		}

		return c.SendString("anonymous")
	}

	for _, p := range []string{
		"/backoffice", login.Path, "/signin-oidc", "/metrics", "/auth/oidc/login", "/static/app.css", "/logout",
		"/staticfoo", "/metricsfoo", "/authx", login.Path + "x",
	} {
		app.Get(p, ok)
	}

	return app
}

func TestMiddleware(t *testing.T) {
	handlertest.InitSessionStore()

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: models.User{ID: 7, Username: "jane@example.com"}}).Write(sessionID, time.Minute))

	tests := []struct {
		name         string
		path         string
		sessionID    string
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{name: "protected without session", path: "/backoffice", wantStatus: http.StatusFound, wantLocation: login.Path},
		{name: "protected with unknown session", path: "/backoffice", sessionID: "unknown", wantStatus: http.StatusFound, wantLocation: login.Path},
		{name: "protected with session", path: "/backoffice", sessionID: sessionID, wantStatus: http.StatusOK, wantBody: "user=jane@example.com"},
		{name: "login page without session", path: login.Path, wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "login page with unknown session", path: login.Path, sessionID: "unknown", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "login page with session", path: login.Path, sessionID: sessionID, wantStatus: http.StatusFound, wantLocation: "/backoffice"},
		{name: "callback", path: "/signin-oidc", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "challenge", path: "/auth/oidc/login", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "static", path: "/static/app.css", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "logout", path: "/logout", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "static prefix is not a segment", path: "/staticfoo", wantStatus: http.StatusFound, wantLocation: login.Path},
		{name: "public path prefix is not a segment", path: "/metricsfoo", wantStatus: http.StatusFound, wantLocation: login.Path},
		{name: "auth prefix is not a segment", path: "/authx", wantStatus: http.StatusFound, wantLocation: login.Path},
		{name: "login prefix is not the login page", path: login.Path + "x", wantStatus: http.StatusFound, wantLocation: login.Path},
	}

	app := newApp()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlertest.Get(t, app, tt.path, tt.sessionID)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))
				return
			}

			assert.Equal(t, tt.wantBody, handlertest.Body(t, resp))
		})
	}
}

func TestRootIsNeverPublic(t *testing.T) {
	handlertest.InitSessionStore()

	app := newApp("/", "")

	resp := handlertest.Get(t, app, "/backoffice", "")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, login.Path, resp.Header.Get("Location"))

	resp = handlertest.Get(t, app, "/static/app.css", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
