// Package web assembles the backoffice web server.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	fiberlogger "github.com/GoPowerDNS-Admin/backoffice-oidc/internal/logger/adapter/fiber"
	oidchandler "github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/auth/oidc"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/backoffice"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/logout"
	authmiddleware "github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/middleware/auth"
)

// CheckAlivePath answers load balancer health checks.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	cancel       context.CancelFunc
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the web service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the web service. Unless fast shutdown is set, the checkalive endpoint
// returns 503 for ShutDownTime seconds first.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	// stops background work of the handlers, e.g. the state janitor
	s.cancel()

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("join", strings.Join)
	templateEngine.AddFunc("hasRole", func(roles []string, alias string) bool {
		for _, r := range roles {
			if r == alias {
				return true
			}
		}

		return false
	})

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   ErrorHandler,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
		db:           db,
		authService:  auth.NewService(db),
		cancel:       cancel,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:            cfg.Log,
		CacheControlError: fiberlogger.ConfigDefault.CacheControlError,
		SkipPaths:         []string{cfg.Webserver.MetricsPath},
		CheckAlivePath:    CheckAlivePath,
	}))

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.Alive() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	if cfg.Webserver.MetricsPath != "" {
		app.Get(cfg.Webserver.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(authmiddleware.New(authmiddleware.Config{
		PublicPaths: []string{CheckAlivePath, cfg.Webserver.MetricsPath, cfg.AzureAD.CallbackPath},
		HomePath:    backoffice.Path,
	}))

	app.Use(auth.AddRolesToLocals(service.authService))

	// init handlers (they register their own routes with role checks)
	oidchandler.Handler.Init(ctx, app, cfg, db)
	login.Handler.Init(app, cfg, db, &oidchandler.Handler)
	logout.Handler.Init(app, cfg)
	backoffice.Handler.Init(app, cfg, service.authService)

	// redirect root to the backoffice
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(backoffice.Path)
	})

	return service
}

// cleanPath collapses duplicate slashes and dot segments of the request path.
func cleanPath(c *fiber.Ctx) error {
	p := c.Path()
	if cleaned := path.Clean(p); cleaned != p && cleaned != "." {
		c.Path(cleaned)
	}

	return c.Next()
}
