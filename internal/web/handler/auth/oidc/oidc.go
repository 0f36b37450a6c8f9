package oidc

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/controller/user"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// LoginTemplate renders a failed or denied login.
	LoginTemplate = "login"

	// SuccessPath is where a signed-in user is sent.
	SuccessPath = handler.RootPath + "backoffice"

	// MsgAccessDenied is shown when the login hooks deny an external login.
	MsgAccessDenied = "Access denied: your account is missing a required role, email or name"

	// MsgAccountConflict is shown when the email of the external identity is another user's username.
	MsgAccountConflict = "Another account already uses this email address"

	discoveryTimeout = 30 * time.Second
	janitorInterval  = time.Minute
)

// Service is the OIDC handler service.
type Service struct {
	cfg      *config.Config
	reg      auth.Registration
	provider auth.Authenticator
	logins   *auth.ExternalLoginService
	states   *auth.StateStore
}

// Handler is the OIDC handler.
var Handler = Service{} //nolint:gochecknoglobals

var _ handler.ExternalLogins = (*Service)(nil)

// Init registers the Azure AD login when the configuration is complete.
// An incomplete configuration skips the registration silently; a provider that cannot be
// discovered disables the login with a warning. Neither stops the application.
func (s *Service) Init(ctx context.Context, app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.provider = nil

	if !cfg.AzureAD.IsValid() {
		log.Info().Msg("Azure AD login is not configured, skipping registration")
		return
	}

	reg := auth.NewRegistration(cfg.Webserver.URL, &cfg.AzureAD)

	discoveryCtx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	provider, err := auth.NewOIDCProvider(discoveryCtx, reg)
	if err != nil {
		log.Warn().Err(err).Str("scheme", reg.SchemeName).
			Msg("Failed to initialize OIDC provider - Azure AD login will be disabled")

		return
	}

	s.Register(ctx, app, reg, provider, auth.NewLoginService(reg, user.New(db)))
}

// Register adds the routes of an external login provider.
func (s *Service) Register(
	ctx context.Context,
	app *fiber.App,
	reg auth.Registration,
	provider auth.Authenticator,
	logins *auth.ExternalLoginService,
) {
	s.reg = reg
	s.provider = provider
	s.logins = logins
	s.states = auth.NewStateStore(auth.DefaultStateTTL)

	app.Get(LoginPath, s.Login)
	app.Get(reg.CallbackPath, s.Callback)

	go s.states.RunJanitor(ctx, janitorInterval)

	log.Info().Str("scheme", reg.SchemeName).Str("callback", reg.CallbackPath).
		Msg("OIDC authentication provider initialized")
}

// Providers implements handler.ExternalLogins.
func (s *Service) Providers() []handler.ExternalProvider {
	if s.provider == nil {
		return nil
	}

	return []handler.ExternalProvider{{
		Scheme:         s.reg.SchemeName,
		DisplayName:    s.reg.DisplayName,
		Icon:           s.reg.Icon,
		ChallengePath:  LoginPath,
		DenyLocalLogin: s.reg.DenyLocalLogin,
		AutoRedirect:   s.reg.AutoRedirectLoginToExternalProvider,
	}}
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := s.states.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate state token")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	return c.Redirect(s.provider.AuthCodeURL(state))
}

// Callback completes the OIDC login flow.
//
// An assertion the provider should never send aborts with an error, which the app's error
// handler turns into a server error. A denied login renders the login page with 403.
func (s *Service) Callback(c *fiber.Ctx) error {
	if providerErr := c.Query("error"); providerErr != "" {
		log.Warn().Str("error", providerErr).Str("description", c.Query("error_description")).
			Msg("OIDC provider returned an error")

		return s.renderFailure(c, fiber.StatusUnauthorized, "Authentication failed")
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("Missing code or state in OIDC callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	if err := s.states.Consume(state); err != nil {
		log.Error().Err(err).Msg("Invalid state token")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	ctx := c.UserContext()

	assertion, token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, claims.ErrIntegrationFault) {
			return err
		}

		log.Error().Err(err).Msg("OIDC authentication failed")

		return s.renderFailure(c, fiber.StatusUnauthorized, "Authentication failed")
	}

	authenticatedUser, decision, err := s.logins.SignIn(ctx, assertion, s.provider.SavedTokens(token))
	if errors.Is(err, auth.ErrUserNameOrEmailExists) {
		return s.renderFailure(c, fiber.StatusConflict, MsgAccountConflict)
	}

	if err != nil {
		return err
	}

	if !decision.Allow {
		return s.renderFailure(c, fiber.StatusForbidden, MsgAccessDenied)
	}

	if err = handler.SignIn(c, s.cfg, authenticatedUser, s.provider.Scheme()); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	log.Info().Str("username", authenticatedUser.Username).Str("scheme", s.provider.Scheme()).
		Msg("User logged in successfully via OIDC")

	return c.Redirect(SuccessPath)
}

func (s *Service) renderFailure(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render(LoginTemplate, fiber.Map{
		"Title":               s.cfg.Title,
		"providers":           s.Providers(),
		"local_login_enabled": !s.reg.DenyLocalLogin,
		"error":               msg,
	}, handler.BaseLayout)
}
