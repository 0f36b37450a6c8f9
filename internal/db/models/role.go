package models

import "time"

// Default backoffice user group aliases.
const (
	RoleAdmin         = "admin"
	RoleEditor        = "editor"
	RoleWriter        = "writer"
	RoleTranslator    = "translator"
	RoleSensitiveData = "sensitiveData"
)

// Role is an entry of the backoffice user group catalogue.
// The catalogue is used for display; assignments live in UserRole.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Alias is the unique alias the identity provider refers to, e.g. "editor".
	Alias string `gorm:"unique;size:100;not null"`
	// Name is the display name of the role.
	Name string `gorm:"size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}

// DefaultRoles returns the built-in user groups seeded on an empty database.
func DefaultRoles() []Role {
	return []Role{
		{Alias: RoleAdmin, Name: "Administrators", Description: "Full access to the backoffice", IsSystem: true},
		{Alias: RoleEditor, Name: "Editors", Description: "Create, edit and publish content", IsSystem: true},
		{Alias: RoleWriter, Name: "Writers", Description: "Create and edit content without publishing", IsSystem: true},
		{Alias: RoleTranslator, Name: "Translators", Description: "Translate content", IsSystem: true},
		{Alias: RoleSensitiveData, Name: "Sensitive data", Description: "Access to sensitive member data", IsSystem: true},
	}
}
