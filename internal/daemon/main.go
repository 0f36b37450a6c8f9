// Package daemon wires configuration, database, sessions and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it is shut down by a signal.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := OpenDB(&cfg.DB, cfg.Log.SQL)
	if err != nil {
		return nil, err
	}

	if err = Seed(context.Background(), &cfg.Admin, db); err != nil {
		return nil, err
	}

	session.Init(newSessionStorage(&cfg.DB))

	log.Info().Str("engine", cfg.DB.GormEngine).Int("port", cfg.Webserver.Port).Msg("backoffice initialized")

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}, nil
}
