package daemon

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/logger"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/logger/adapter/gormlogger"
)

// ErrUnsupportedEngine is returned for an unknown DB.GormEngine.
var ErrUnsupportedEngine = errors.New("unsupported gorm engine")

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case config.EngineMySQL, "":
		return gormmysql.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg)), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, errors.Wrap(ErrUnsupportedEngine, cfg.GormEngine)
	}
}

// OpenDB connects to the database and migrates the schema.
func OpenDB(cfg *config.DB, sqlLog logger.SQL) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.New(sqlLog),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.GormEngine == config.EngineSQLite {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sql db")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
