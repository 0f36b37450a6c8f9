package models

import "time"

// ExternalLogin links a user to an identity at an external login provider.
type ExternalLogin struct {
	// ID is the unique identifier for the link.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the linked user.
	UserID uint64 `gorm:"not null;index"`
	// LoginProvider is the authentication scheme name, e.g. "Backoffice.AzureAD".
	LoginProvider string `gorm:"size:400;not null;uniqueIndex:idx_provider_key"`
	// ProviderKey is the provider scoped user key (the subject claim).
	ProviderKey string `gorm:"size:4000;not null;uniqueIndex:idx_provider_key"`
	// User is the linked user. Links are removed with the user.
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// Tokens are the tokens saved with the last successful login.
	Tokens []ExternalLoginToken `gorm:"foreignKey:ExternalLoginID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the link was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp of the last login through this link (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the ExternalLogin model.
func (ExternalLogin) TableName() string {
	return "external_logins"
}

// ExternalLoginToken is a token saved for an external login, e.g. the id_token.
type ExternalLoginToken struct {
	// ExternalLoginID is the ID of the owning external login.
	ExternalLoginID uint64 `gorm:"primaryKey;column:external_login_id"`
	// Name is the token name, e.g. "id_token" or "access_token".
	Name string `gorm:"primaryKey;size:255"`
	// Value is the token value.
	Value string `gorm:"type:text"`
	// CreatedAt is the timestamp when the token was saved (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the ExternalLoginToken model.
func (ExternalLoginToken) TableName() string {
	return "external_login_tokens"
}
