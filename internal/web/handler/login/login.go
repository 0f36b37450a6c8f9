// Package login serves the backoffice login page and the local username and password login.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// Template is the login page template.
	Template = "login"

	// SuccessPath is where a signed-in user is sent.
	SuccessPath = "/backoffice"
)

// Form is the local login form.
type Form struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Service is the login handler service.
type Service struct {
	cfg       *config.Config
	local     *auth.LocalProvider
	externals handler.ExternalLogins
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler. externals may be nil when no external provider is registered.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, externals handler.ExternalLogins) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.local = auth.NewLocalProvider(db)
	s.externals = externals

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})
}

func (s *Service) providers() []handler.ExternalProvider {
	if s.externals == nil {
		return nil
	}

	return s.externals.Providers()
}

// localLoginEnabled reports whether no registered provider denies the local login.
func (s *Service) localLoginEnabled() bool {
	for _, p := range s.providers() {
		if p.DenyLocalLogin {
			return false
		}
	}

	return true
}

// Get renders the login page, or redirects to the provider that asks for it.
func (s *Service) Get(c *fiber.Ctx) error {
	for _, p := range s.providers() {
		if p.AutoRedirect {
			return c.Redirect(p.ChallengePath)
		}
	}

	return s.render(c, fiber.StatusOK, nil)
}

// Post handles the local login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.localLoginEnabled() {
		return s.render(c, fiber.StatusForbidden, ErrLocalAuthDisabled)
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil || form.Username == "" {
		return s.render(c, fiber.StatusBadRequest, ErrInvalidFormData)
	}

	user, err := s.local.Authenticate(c.UserContext(), form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound),
			errors.Is(err, auth.ErrInvalidPassword),
			errors.Is(err, auth.ErrUserAccountDisabled):
			log.Warn().Str("username", form.Username).Err(err).Msg("local login failed")
			return s.render(c, fiber.StatusUnauthorized, ErrInvalidCredentials)
		default:
			log.Error().Err(err).Msg("local login failed")
			return s.render(c, fiber.StatusInternalServerError, ErrInternalServerError)
		}
	}

	if err = handler.SignIn(c, s.cfg, user, ""); err != nil {
		return s.render(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	log.Info().Str("username", user.Username).Msg("User logged in successfully")

	return c.Redirect(SuccessPath)
}

func (s *Service) render(c *fiber.Ctx, status int, loginErr error) error {
	data := fiber.Map{
		"Title":               s.cfg.Title,
		"providers":           s.providers(),
		"local_login_enabled": s.localLoginEnabled(),
	}

	if loginErr != nil {
		data["error"] = loginErr.Error()
	}

	return c.Status(status).Render(Template, data, handler.BaseLayout)
}
