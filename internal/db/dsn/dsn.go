// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
)

// Create builds the Data Source Name of the configured gorm engine.
func Create(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.EnginePostgres:
		return postgres(dbCfg)
	case config.EngineSQLite:
		return sqlite(dbCfg)
	default:
		return mysql(dbCfg)
	}
}

func mysql(db *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

// postgres builds a URL DSN, Extras are appended as query parameters, e.g. "sslmode=disable".
func postgres(db *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// sqlite uses Name as file, an empty name is an in-memory database.
func sqlite(db *config.DB) string {
	name := db.Name
	if name == "" {
		name = ":memory:"
	}

	if db.Extras == "" {
		return name
	}

	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}

	return name + sep + db.Extras
}
