package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents a backoffice user account.
// Users sign in with a local password or through the external identity provider.
type User struct {
	// ID is the unique identifier for the user. Zero until the user is persisted.
	ID uint64 `gorm:"primaryKey"`
	// Username is the unique name used for login. External users mirror their email address.
	Username string `gorm:"unique;size:255;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255;index;not null"`
	// DisplayName is the name shown in the backoffice.
	DisplayName string `gorm:"size:255"`
	// Password is the Argon2id hashed password (only used for local authentication).
	Password string `gorm:"size:255" json:"-"`
	// IsApproved indicates whether the user may sign in to the backoffice.
	IsApproved bool `gorm:"not null;default:false"`
	// Culture is the preferred UI culture, e.g. "en-US".
	Culture string `gorm:"size:20"`
	// Roles are the backoffice user group aliases assigned to the user.
	Roles []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// RoleAliases returns the role aliases of the user in assignment order.
func (u *User) RoleAliases() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.RoleAlias)
	}

	return out
}

// HasRole reports whether the user has the given role alias.
func (u *User) HasRole(alias string) bool {
	for _, r := range u.Roles {
		if r.RoleAlias == alias {
			return true
		}
	}

	return false
}

// SetRoles replaces all roles of the user. Duplicates and empty aliases are dropped.
func (u *User) SetRoles(aliases ...string) {
	roles := make([]UserRole, 0, len(aliases))
	seen := make(map[string]struct{}, len(aliases))

	for _, alias := range aliases {
		if alias == "" {
			continue
		}

		if _, ok := seen[alias]; ok {
			continue
		}

		seen[alias] = struct{}{}

		roles = append(roles, UserRole{UserID: u.ID, RoleAlias: alias})
	}

	u.Roles = roles
}

// AddRole adds a role alias if the user does not have it yet.
func (u *User) AddRole(alias string) {
	if alias == "" || u.HasRole(alias) {
		return
	}

	u.Roles = append(u.Roles, UserRole{UserID: u.ID, RoleAlias: alias})
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// Users without a local password never match.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
