package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

// LocalsCurrentUser is the fiber.Locals key of the signed-in session.
const LocalsCurrentUser = "CurrentUser"

// CurrentSession returns the session of the signed-in user, from the locals set by the auth
// middleware or else from the session cookie. ok is false without a valid session.
func CurrentSession(c *fiber.Ctx) (data session.Data, ok bool) {
	if d, found := c.Locals(LocalsCurrentUser).(session.Data); found && d.User.ID > 0 {
		return d, true
	}

	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return data, false
	}

	if err := data.Read(sessionID); err != nil || data.User.ID == 0 {
		return session.Data{}, false
	}

	return data, true
}
