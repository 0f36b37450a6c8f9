// Package oidc provides the handlers of the Azure AD OpenID Connect login.
//
// The login is only registered when tenant, client id, client secret, callback path and
// button label are configured. The flow includes:
//   - Login initiation with CSRF protection via one-time state tokens
//   - Authorization callback handling with ID token verification
//   - Reconciling the backoffice user from the ID token claims
//   - Session creation and cookie management
//
// Example usage:
//
//	oidc.Handler.Init(ctx, app, cfg, db)
//
//	// Users can then access:
//	// GET  /auth/oidc/login - Initiate OIDC login flow
//	// GET  <CallbackPath>   - Handle provider callback
package oidc
