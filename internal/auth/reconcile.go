package auth

import (
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
)

// Decision is the outcome of an external login attempt.
type Decision struct {
	Allow bool
}

// LoginHooks are the extension points the login pipeline calls for an external login.
type LoginHooks interface {
	// OnAutoLink is called for a user record created for an unknown external identity,
	// before OnExternalLogin.
	OnAutoLink(user *models.User, assertion *claims.Assertion)
	// OnExternalLogin is called on every external login and decides whether the login may continue.
	// The user record may only be mutated when the returned decision allows the login.
	OnExternalLogin(user *models.User, assertion *claims.Assertion) Decision
}

// AutoLinkOptions configure how unknown external identities get a local user.
type AutoLinkOptions struct {
	// AutoLinkExternalAccount enables linking and creating users on first login.
	AutoLinkExternalAccount bool
	// DefaultUserGroups are assigned to users created by auto-linking.
	DefaultUserGroups []string
	// DefaultCulture is the culture of users created by auto-linking.
	DefaultCulture string
}

// Reconciler keeps the local user in sync with the identity provider.
// The provider is the source of truth for roles, email, username and display name.
type Reconciler struct {
	claimTypes claims.ClaimTypeMap
	autoLink   AutoLinkOptions
}

var _ LoginHooks = (*Reconciler)(nil)

// NewReconciler creates a reconciler reading claims with the given claim type map.
func NewReconciler(claimTypes claims.ClaimTypeMap, autoLink AutoLinkOptions) *Reconciler {
	return &Reconciler{
		claimTypes: claimTypes,
		autoLink:   autoLink,
	}
}

// Reconcile applies the required claims to the user record.
//
// Without role, email or name the login is denied and the user is left untouched.
// Otherwise, the roles are replaced by the single role claim, the user is approved and
// email, username and display name are overwritten from the claims.
// Approval is never revoked here, a denied login leaves IsApproved as it was.
func (r *Reconciler) Reconcile(user *models.User, rc claims.RequiredClaims) Decision {
	if user == nil || !rc.Complete() {
		return Decision{Allow: false}
	}

	// drop roles that may no longer be assigned at the provider
	user.SetRoles(rc.Role)

	user.IsApproved = true

	user.Email = rc.Email
	user.Username = rc.Email
	user.DisplayName = rc.Name

	return Decision{Allow: true}
}

// OnAutoLink applies the auto-link defaults to a newly created user.
func (r *Reconciler) OnAutoLink(user *models.User, _ *claims.Assertion) {
	for _, group := range r.autoLink.DefaultUserGroups {
		user.AddRole(group)
	}

	if r.autoLink.DefaultCulture != "" && user.Culture == "" {
		user.Culture = r.autoLink.DefaultCulture
	}
}

// OnExternalLogin extracts the required claims and reconciles the user with them.
func (r *Reconciler) OnExternalLogin(user *models.User, assertion *claims.Assertion) Decision {
	rc := claims.Extract(assertion, r.claimTypes)

	decision := r.Reconcile(user, rc)
	if !decision.Allow {
		log.Debug().Strs("missing", rc.Missing()).Msg("external login is missing required claims")
	}

	return decision
}
