// Package models contains database model definitions.
package models

// All returns every model for auto migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&UserRole{},
		&ExternalLogin{},
		&ExternalLoginToken{},
	}
}
