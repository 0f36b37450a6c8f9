package handler

// ExternalProvider describes a registered external login provider for the login page.
type ExternalProvider struct {
	// Scheme is the authentication scheme name.
	Scheme string
	// DisplayName is the label of the login button.
	DisplayName string
	// Icon is the icon of the login button.
	Icon string
	// ChallengePath starts the login with the provider.
	ChallengePath string
	// DenyLocalLogin hides the username and password form.
	DenyLocalLogin bool
	// AutoRedirect sends the login page straight to ChallengePath.
	AutoRedirect bool
}

// ExternalLogins lists the registered external login providers.
type ExternalLogins interface {
	Providers() []ExternalProvider
}
