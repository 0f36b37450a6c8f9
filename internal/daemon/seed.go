package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
)

// Seed creates the missing user groups of the catalogue and, on an empty user table,
// the local administrator.
func Seed(ctx context.Context, cfg *config.Admin, db *gorm.DB) error {
	for _, role := range models.DefaultRoles() {
		if err := db.WithContext(ctx).Where(models.Role{Alias: role.Alias}).FirstOrCreate(&role).Error; err != nil {
			return errors.Wrapf(err, "failed to seed role %s", role.Alias)
		}
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count users")
	}

	if count > 0 || cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	admin, err := auth.NewLocalProvider(db).CreateUser(ctx,
		cfg.Username, cfg.Email, cfg.Password, "Administrator", models.RoleAdmin)
	if err != nil {
		return errors.Wrap(err, "failed to seed admin user")
	}

	log.Info().Str("username", admin.Username).Msg("local administrator created")

	return nil
}
