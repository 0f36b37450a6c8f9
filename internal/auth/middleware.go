package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

// RequireRole creates Fiber middleware that requires at least one of the given role aliases.
// Roles are checked against the database, so a role removed by a later login takes effect at once.
func RequireRole(authService *Service, aliases ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Error().Err(err).Msg("Failed to read session")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if sessionData.User.ID == 0 {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		hasRole, err := authService.HasAnyRole(c.UserContext(), sessionData.User.ID, aliases)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Strs("roles", aliases).
				Msg("Failed to check roles")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !hasRole {
			log.Warn().Uint64("user_id", sessionData.User.ID).Strs("roles", aliases).
				Msg("User lacks required role")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AddRolesToLocals is a Fiber middleware that adds the current user's roles to fiber.Locals.
func AddRolesToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return c.Next()
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil || sessionData.User.ID == 0 {
			return c.Next()
		}

		roles, err := authService.GetUserRoles(c.UserContext(), sessionData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Msg("Failed to get user roles")
			return c.Next()
		}

		c.Locals("roles", roles)

		return c.Next()
	}
}
