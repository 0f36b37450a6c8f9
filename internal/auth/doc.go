// Package auth provides authentication and authorization for the backoffice.
//
// Users sign in with one of two sources:
//   - Local database authentication with Argon2id password hashing
//   - OpenID Connect authentication with Azure AD as external identity provider
//
// # External Login
//
// OIDCProvider implements the authorization code flow. The verified ID token is
// turned into a claims.Assertion and handed to ExternalLoginService.SignIn, which
//   - rejects assertions the provider should never send (claims.ErrIntegrationFault)
//   - resolves the local user through a UserStore, auto-linking unknown identities
//   - asks the LoginHooks for a Decision
//   - persists the user and the external login only when the login is allowed
//
// The Reconciler is the default set of hooks. The identity provider owns the roles,
// email, username and display name of a user; they are overwritten on every login.
//
// # Authorization
//
// Service answers role questions against the database. RequireRole protects routes:
//
//	app.Get("/backoffice/users",
//	    auth.RequireRole(authService, models.RoleAdmin),
//	    handler,
//	)
package auth
