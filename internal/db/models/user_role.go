package models

// UserRole assigns a backoffice user group alias to a user.
// Aliases are stored as sent by the identity provider, they are not constrained to the Role catalogue.
type UserRole struct {
	// UserID is the ID of the user holding the role.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// RoleAlias is the user group alias, e.g. "editor".
	RoleAlias string `gorm:"primaryKey;column:role_alias;size:100"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
