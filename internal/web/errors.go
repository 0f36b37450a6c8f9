package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
)

// ErrorHandler is the error handler of the fiber app.
// fiber errors keep their status; everything else, integration faults of the identity provider
// included, is logged and answered with 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}

	event := log.Error().Err(err).Str("path", c.Path())
	if errors.Is(err, claims.ErrIntegrationFault) {
		event = event.Bool("integration_fault", true)
	}

	event.Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).SendString(fiber.ErrInternalServerError.Message)
}
