package auth

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
)

const (
	// ExternalAuthenticationTypePrefix prefixes the scheme name of every backoffice login provider.
	ExternalAuthenticationTypePrefix = "Backoffice."

	// AzureADSchemeName is the scheme name of the Azure AD provider without prefix.
	AzureADSchemeName = "AzureAD"

	// DefaultAuthority is the Azure AD login authority.
	DefaultAuthority = "https://login.microsoftonline.com"

	// ResponseTypeCode is the authorization code flow response type.
	ResponseTypeCode = "code"
)

// multiTenant lists the Azure AD tenant aliases whose tokens carry the real tenant as issuer.
var multiTenant = map[string]bool{"common": true, "organizations": true, "consumers": true} //nolint:gochecknoglobals

// Authenticator performs the OpenID Connect handshake with the identity provider.
type Authenticator interface {
	// Scheme returns the authentication scheme name.
	Scheme() string
	// AuthCodeURL returns the authorization URL carrying the state token.
	AuthCodeURL(state string) string
	// Exchange redeems the authorization code, verifies the ID token and returns its claims.
	Exchange(ctx context.Context, code string) (*claims.Assertion, *oauth2.Token, error)
	// SavedTokens returns the tokens to keep with the external login, nil when none are kept.
	SavedTokens(token *oauth2.Token) map[string]string
}

// Registration declares the external login provider of the backoffice.
type Registration struct {
	// SchemeName is the prefixed authentication scheme name.
	SchemeName string
	// DisplayName is the label of the login button.
	DisplayName string
	// Icon is the icon of the login button.
	Icon string
	// TenantID is the Azure AD tenant.
	TenantID string
	// Authority is the base URL of the identity provider.
	Authority string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// CallbackPath is the route the provider redirects back to.
	CallbackPath string
	// RedirectURL is the absolute callback URL.
	RedirectURL string
	// Scopes are the OAuth2 scopes to request.
	Scopes []string
	// ResponseType is the OAuth2 response type.
	ResponseType string
	// RequireHTTPSMetadata rejects an authority that is not served over HTTPS.
	RequireHTTPSMetadata bool
	// SaveTokens keeps the tokens of a login with the external login link.
	SaveTokens bool
	// DenyLocalLogin disables username and password login.
	DenyLocalLogin bool
	// AutoRedirectLoginToExternalProvider sends the login page straight to the provider.
	AutoRedirectLoginToExternalProvider bool
	// AutoLink configures auto-linking of unknown identities.
	AutoLink AutoLinkOptions
	// ClaimTypes maps the login fields to provider claim types.
	ClaimTypes claims.ClaimTypeMap
}

// NewAzureADRegistration returns the Azure AD registration defaults for a tenant and client.
func NewAzureADRegistration(baseURL, tenantID, clientID, clientSecret, callbackPath string) Registration {
	return Registration{
		SchemeName:           ExternalAuthenticationTypePrefix + AzureADSchemeName,
		DisplayName:          "Azure AD",
		Icon:                 "icon-cloud",
		TenantID:             tenantID,
		Authority:            DefaultAuthority,
		ClientID:             clientID,
		ClientSecret:         clientSecret,
		CallbackPath:         callbackPath,
		RedirectURL:          strings.TrimSuffix(baseURL, "/") + callbackPath,
		Scopes:               []string{oidc.ScopeOpenID, "profile", "email"},
		ResponseType:         ResponseTypeCode,
		RequireHTTPSMetadata: true,
		SaveTokens:           true,
		AutoLink:             AutoLinkOptions{AutoLinkExternalAccount: true},
		ClaimTypes:           claims.DefaultClaimTypeMap(),
	}
}

// Issuer returns the issuer URL of the tenant.
func (r *Registration) Issuer() string {
	return strings.TrimSuffix(r.Authority, "/") + "/" + r.TenantID + "/v2.0"
}

// MetadataAddress returns the OpenID discovery document URL of the tenant.
func (r *Registration) MetadataAddress() string {
	return r.Issuer() + "/.well-known/openid-configuration"
}

// Validate checks the values needed to talk to the provider.
func (r *Registration) Validate() error {
	switch {
	case r.SchemeName == "":
		return fmt.Errorf("%w: scheme name is required", ErrIncompleteRegistration)
	case r.TenantID == "":
		return fmt.Errorf("%w: tenant id is required", ErrIncompleteRegistration)
	case r.ClientID == "":
		return fmt.Errorf("%w: client id is required", ErrIncompleteRegistration)
	case r.ClientSecret == "":
		return fmt.Errorf("%w: client secret is required", ErrIncompleteRegistration)
	case r.CallbackPath == "":
		return fmt.Errorf("%w: callback path is required", ErrIncompleteRegistration)
	}

	u, err := url.Parse(r.Authority)
	if err != nil {
		return fmt.Errorf("invalid authority %q: %w", r.Authority, err)
	}

	if r.RequireHTTPSMetadata && u.Scheme != "https" {
		return ErrInsecureMetadata
	}

	return nil
}

// OIDCProvider handles the OIDC handshake with the registered provider.
type OIDCProvider struct {
	reg      Registration
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

var _ Authenticator = (*OIDCProvider)(nil)

// NewOIDCProvider discovers the provider metadata and creates the ID token verifier.
func NewOIDCProvider(ctx context.Context, reg Registration) (*OIDCProvider, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	skipIssuerCheck := multiTenant[strings.ToLower(reg.TenantID)]
	if skipIssuerCheck {
		ctx = oidc.InsecureIssuerURLContext(ctx, reg.Issuer())
	}

	provider, err := oidc.NewProvider(ctx, reg.Issuer())
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID:        reg.ClientID,
		SkipIssuerCheck: skipIssuerCheck,
	})

	scopes := reg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		reg:      reg,
		provider: provider,
		verifier: verifier,
		oauth2: oauth2.Config{
			ClientID:     reg.ClientID,
			ClientSecret: reg.ClientSecret,
			RedirectURL:  reg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// Scheme returns the authentication scheme name.
func (p *OIDCProvider) Scheme() string {
	return p.reg.SchemeName
}

// Registration returns the registration the provider was created with.
func (p *OIDCProvider) Registration() Registration {
	return p.reg
}

// AuthCodeURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth2.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", p.responseType()))
}

func (p *OIDCProvider) responseType() string {
	if p.reg.ResponseType == "" {
		return ResponseTypeCode
	}

	return p.reg.ResponseType
}

// Exchange exchanges the code for a token, verifies the ID token and converts its claims.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*claims.Assertion, *oauth2.Token, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, nil, fmt.Errorf("%w: %w", claims.ErrIntegrationFault, ErrNoIDToken)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	assertion, err := claims.FromClaimer(p.reg.SchemeName, idToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", claims.ErrIntegrationFault, err)
	}

	return assertion, oauth2Token, nil
}

// SavedTokens returns the tokens kept with the external login, or nil when tokens are not saved.
func (p *OIDCProvider) SavedTokens(token *oauth2.Token) map[string]string {
	return savedTokens(p.reg.SaveTokens, token)
}

func savedTokens(save bool, token *oauth2.Token) map[string]string {
	if !save || token == nil {
		return nil
	}

	out := map[string]string{}

	if v, ok := token.Extra("id_token").(string); ok && v != "" {
		out["id_token"] = v
	}

	if token.AccessToken != "" {
		out["access_token"] = token.AccessToken
	}

	if token.RefreshToken != "" {
		out["refresh_token"] = token.RefreshToken
	}

	if !token.Expiry.IsZero() {
		out["expires_at"] = strconv.FormatInt(token.Expiry.Unix(), 10)
	}

	return out
}
