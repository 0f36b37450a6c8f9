// Package user persists backoffice users signing in through an external login provider.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserNil is returned when saving a nil user.
	ErrUserNil = errors.New("user is nil")
	// ErrLinkIncomplete is returned when saving a link without provider or key.
	ErrLinkIncomplete = errors.New("external login link needs a login provider and a provider key")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
)

// Controller stores users and their external logins with gorm.
type Controller struct {
	db *gorm.DB
}

var _ auth.UserStore = (*Controller)(nil)

// New creates a new user controller.
func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

// FindOrCreate resolves the user of an external identity.
// The existing link wins over a user with the same email; without both a fresh user
// is returned that Save will create.
func (c *Controller) FindOrCreate(ctx context.Context, key auth.LoginKey) (*models.User, auth.LinkState, error) {
	if c.db == nil {
		return nil, auth.LinkNewUser, ErrDBNil
	}

	db := c.db.WithContext(ctx)

	var link models.ExternalLogin

	err := db.Where("login_provider = ? AND provider_key = ?", key.LoginProvider, key.ProviderKey).
		First(&link).Error

	switch {
	case err == nil:
		u, errGet := c.Get(ctx, link.UserID)
		if errGet == nil {
			return u, auth.LinkExisting, nil
		}

		if !errors.Is(errGet, ErrUserNotFound) {
			return nil, auth.LinkExisting, errGet
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, auth.LinkExisting, fmt.Errorf("failed to query external login: %w", err)
	}

	if key.Email != "" {
		var u models.User

		err = db.Preload("Roles").
			Where("LOWER(email) = LOWER(?)", key.Email).
			Order("id").
			First(&u).Error

		switch {
		case err == nil:
			return &u, auth.LinkByEmail, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, auth.LinkByEmail, fmt.Errorf("failed to query user by email: %w", err)
		}
	}

	return &models.User{
		Username:    key.Email,
		Email:       key.Email,
		DisplayName: key.Name,
	}, auth.LinkNewUser, nil
}

// Get retrieves a user with roles by ID.
func (c *Controller) Get(ctx context.Context, id uint64) (*models.User, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	err := c.db.WithContext(ctx).Preload("Roles").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Save persists the user, replaces its roles and links the external identity in one transaction.
func (c *Controller) Save(ctx context.Context, u *models.User, link auth.ExternalLink) error {
	if c.db == nil {
		return ErrDBNil
	}

	if u == nil {
		return ErrUserNil
	}

	if link.LoginProvider == "" || link.ProviderKey == "" {
		return ErrLinkIncomplete
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := u.Roles

		if err := usernameFree(tx, u); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(u).Error; err != nil {
			return err
		}

		if err := replaceRoles(tx, u, roles); err != nil {
			return err
		}

		el, err := linkExternalLogin(tx, u.ID, link)
		if err != nil {
			return err
		}

		if link.Tokens == nil {
			return nil
		}

		return replaceTokens(tx, el.ID, link.Tokens)
	})
}

// usernameFree fails with auth.ErrUserNameOrEmailExists when another user holds the username.
func usernameFree(tx *gorm.DB, u *models.User) error {
	var count int64

	err := tx.Model(&models.User{}).
		Where("username = ? AND id <> ?", u.Username, u.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if count > 0 {
		return fmt.Errorf("%w: %q", auth.ErrUserNameOrEmailExists, u.Username)
	}

	return nil
}

// replaceRoles removes all roles of the user and stores the given ones.
func replaceRoles(tx *gorm.DB, u *models.User, roles []models.UserRole) error {
	if err := tx.Where("user_id = ?", u.ID).Delete(&models.UserRole{}).Error; err != nil {
		return fmt.Errorf("failed to remove old roles: %w", err)
	}

	for i := range roles {
		roles[i].UserID = u.ID
	}

	if len(roles) > 0 {
		if err := tx.Create(&roles).Error; err != nil {
			return fmt.Errorf("failed to add roles: %w", err)
		}
	}

	u.Roles = roles

	return nil
}

func linkExternalLogin(tx *gorm.DB, userID uint64, link auth.ExternalLink) (*models.ExternalLogin, error) {
	var el models.ExternalLogin

	err := tx.Omit(clause.Associations).
		Where(models.ExternalLogin{LoginProvider: link.LoginProvider, ProviderKey: link.ProviderKey}).
		Attrs(models.ExternalLogin{UserID: userID}).
		FirstOrCreate(&el).Error
	if err != nil {
		return nil, fmt.Errorf("failed to link external login: %w", err)
	}

	// a link always points at the user that just signed in, this also bumps updated_at
	if err = tx.Model(&el).Omit(clause.Associations).Update("user_id", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to update external login: %w", err)
	}

	return &el, nil
}

func replaceTokens(tx *gorm.DB, externalLoginID uint64, tokens map[string]string) error {
	if err := tx.Where("external_login_id = ?", externalLoginID).Delete(&models.ExternalLoginToken{}).Error; err != nil {
		return fmt.Errorf("failed to remove old tokens: %w", err)
	}

	for name, value := range tokens {
		t := models.ExternalLoginToken{
			ExternalLoginID: externalLoginID,
			Name:            name,
			Value:           value,
		}

		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("failed to save token %s: %w", name, err)
		}
	}

	return nil
}

// Tokens returns the saved tokens of an external login by name.
func (c *Controller) Tokens(ctx context.Context, loginProvider, providerKey string) (map[string]string, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	var el models.ExternalLogin

	err := c.db.WithContext(ctx).Preload("Tokens").
		Where("login_provider = ? AND provider_key = ?", loginProvider, providerKey).
		First(&el).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get external login: %w", err)
	}

	out := make(map[string]string, len(el.Tokens))
	for _, t := range el.Tokens {
		out[t.Name] = t.Value
	}

	return out, nil
}
