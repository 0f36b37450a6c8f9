package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

// DefaultPublicPaths are reachable without a session.
var DefaultPublicPaths = []string{"/static", "/logout", "/auth"} //nolint:gochecknoglobals

// Config defines the config for the middleware.
type Config struct {
	// PublicPaths are served without a session together with everything below them,
	// in addition to the login page. The root path is never public.
	PublicPaths []string
	// HomePath is where a signed-in user visiting the login page is sent.
	HomePath string
}

// New creates the authentication middleware.
func New(config Config) fiber.Handler {
	var public []string

	for _, p := range append(append([]string{}, DefaultPublicPaths...), config.PublicPaths...) {
		if p = strings.TrimRight(strings.ToLower(p), "/"); p != "" {
			public = append(public, p)
		}
	}

	return func(c *fiber.Ctx) error {
		path := strings.ToLower(c.Path())

		for _, p := range public {
			if underPath(path, p) {
				return c.Next()
			}
		}

		isLoginPage := IsLoginPage(c)

		loginCookie := c.Cookies(session.CookieName)
		if loginCookie == "" {
			if isLoginPage {
				return c.Next()
			}

			return c.Redirect(login.Path)
		}

		sessData := new(session.Data)
		if err := sessData.Read(loginCookie); err != nil || sessData.User.ID == 0 {
			// If we're already on the login page, don't redirect (would cause loop)
			if isLoginPage {
				return c.Next()
			}

			return c.Redirect(login.Path)
		}

		// Add the current user to locals for template access
		c.Locals(handler.LocalsCurrentUser, *sessData)

		if isLoginPage && config.HomePath != "" {
			return c.Redirect(config.HomePath)
		}

		return c.Next()
	}
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return underPath(strings.ToLower(c.Path()), strings.TrimRight(login.Path, "/"))
}

// underPath reports whether path is base or lies below it, matching whole segments.
func underPath(path, base string) bool {
	return path == base || strings.HasPrefix(path, base+"/")
}
