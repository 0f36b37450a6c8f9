package auth

import (
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
)

// NewRegistration builds the Azure AD registration from the configuration.
// Options left empty keep the Azure AD defaults.
func NewRegistration(webserverURL string, cfg *config.AzureAD) Registration {
	reg := NewAzureADRegistration(webserverURL, cfg.TenantID, cfg.ClientID, cfg.ClientSecret, cfg.CallbackPath)

	if cfg.LoginBtnDisplayName != "" {
		reg.DisplayName = cfg.LoginBtnDisplayName
	}

	if cfg.Icon != "" {
		reg.Icon = cfg.Icon
	}

	if cfg.Authority != "" {
		reg.Authority = cfg.Authority
	}

	reg.RequireHTTPSMetadata = config.BoolOr(cfg.RequireHTTPSMetadata, true)
	reg.SaveTokens = config.BoolOr(cfg.SaveTokens, true)
	reg.DenyLocalLogin = cfg.DenyLocalLogin
	reg.AutoRedirectLoginToExternalProvider = cfg.AutoRedirectLoginToExternalProvider

	reg.AutoLink = AutoLinkOptions{
		AutoLinkExternalAccount: config.BoolOr(cfg.AutoLinkExternalAccount, true),
		DefaultUserGroups:       cfg.DefaultUserGroups,
		DefaultCulture:          cfg.DefaultCulture,
	}

	reg.ClaimTypes = reg.ClaimTypes.Merge(claims.ClaimTypeMap{
		Name:       cfg.Claims.Name,
		Email:      cfg.Claims.Email,
		Role:       cfg.Claims.Role,
		Subject:    cfg.Claims.Subject,
		NameSource: cfg.Claims.NameSource,
	})

	return reg
}

// NewLoginService creates the external login service of the registration, reconciling users
// with the default login hooks.
func NewLoginService(reg Registration, store UserStore) *ExternalLoginService {
	return NewExternalLoginService(
		store,
		NewReconciler(reg.ClaimTypes, reg.AutoLink),
		reg.ClaimTypes,
		reg.AutoLink.AutoLinkExternalAccount,
	)
}
