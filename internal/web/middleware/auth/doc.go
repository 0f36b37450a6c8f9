// Package auth provides the session middleware of the backoffice.
//
// Requests without a valid session are redirected to the login page, except for the
// public paths: static files, logout, the external login routes and any path added
// through Config.PublicPaths, such as the OIDC callback or the metrics endpoint.
// The signed-in session is stored in fiber.Locals under handler.LocalsCurrentUser.
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{
//		PublicPaths: []string{cfg.AzureAD.CallbackPath},
//		HomePath:    "/backoffice",
//	}))
package auth
