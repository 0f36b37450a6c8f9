package daemon

import (
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/dsn"
)

// SessionTable stores the backoffice sessions.
const SessionTable = "sessions"

// newSessionStorage keeps the sessions in the application database.
// sqlite has no session storage, sessions are kept in memory then.
func newSessionStorage(cfg *config.DB) fiber.Storage {
	switch cfg.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         SessionTable,
		})
	case config.EngineSQLite:
		return nil
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         SessionTable,
		})
	}
}
