// Package main is the entry point of the backoffice web service.
// Users sign in with a local account or through Azure AD OpenID Connect; see the app package
// for the commands.
package main
