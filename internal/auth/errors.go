package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrInsecureMetadata is returned when HTTPS metadata is required but the authority is not served over HTTPS.
	ErrInsecureMetadata = errors.New("the metadata address must use https")

	// ErrIncompleteRegistration is returned when a provider registration lacks a required value.
	ErrIncompleteRegistration = errors.New("incomplete provider registration")

	// ErrUserAccountDisabled is returned when attempting to authenticate a user that is not approved.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrInvalidState is returned when the state token of a callback is unknown or expired.
	ErrInvalidState = errors.New("invalid or expired state token")
)
