package config

// AzureAD configures the Azure AD OpenID Connect login of the backoffice.
type AzureAD struct {
	TenantID            string
	ClientID            string
	ClientSecret        string
	CallbackPath        string
	LoginBtnDisplayName string

	// Authority overrides the Azure AD login authority.
	Authority string
	// Icon of the login button.
	Icon string
	// RequireHTTPSMetadata rejects an authority not served over HTTPS. Defaults to true.
	RequireHTTPSMetadata *bool
	// DenyLocalLogin hides the username and password form.
	DenyLocalLogin bool
	// AutoRedirectLoginToExternalProvider skips the login page.
	AutoRedirectLoginToExternalProvider bool
	// AutoLinkExternalAccount links unknown identities to new or existing users. Defaults to true.
	AutoLinkExternalAccount *bool
	// DefaultUserGroups are assigned to auto-linked users.
	DefaultUserGroups []string
	// DefaultCulture of auto-linked users.
	DefaultCulture string
	// SaveTokens keeps the tokens of a login with the user. Defaults to true.
	SaveTokens *bool
	// Claims overrides the claim types read from the ID token.
	Claims ClaimTypes
}

// ClaimTypes overrides claim types, empty values keep the default.
type ClaimTypes struct {
	Name       string
	Email      string
	Role       string
	Subject    string
	NameSource string
}

// IsValid reports whether the login can be registered.
// All of tenant, client id, client secret, callback path and button label are needed.
func (a *AzureAD) IsValid() bool {
	return a.TenantID != "" &&
		a.ClientID != "" &&
		a.ClientSecret != "" &&
		a.CallbackPath != "" &&
		a.LoginBtnDisplayName != ""
}

// BoolOr returns *b, or def when b is nil.
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}

	return *b
}
