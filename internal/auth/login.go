package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
)

// LinkState tells how FindOrCreate resolved an external identity.
type LinkState int

const (
	// LinkExisting means the identity was already linked to the user.
	LinkExisting LinkState = iota
	// LinkByEmail means an existing user with the same email will be linked.
	LinkByEmail
	// LinkNewUser means a new, not yet persisted user was created.
	LinkNewUser
)

// String implements fmt.Stringer.
func (s LinkState) String() string {
	switch s {
	case LinkExisting:
		return "existing"
	case LinkByEmail:
		return "email"
	case LinkNewUser:
		return "new"
	default:
		return "unknown"
	}
}

// LoginKey identifies an external identity.
type LoginKey struct {
	LoginProvider string
	ProviderKey   string
	Email         string
	Name          string
}

// ExternalLink is persisted together with the user on a successful external login.
type ExternalLink struct {
	LoginProvider string
	ProviderKey   string
	// Tokens are saved with the link when not empty, replacing the tokens of the previous login.
	Tokens map[string]string
}

// UserStore resolves and persists the local users of external identities.
// Implementations must serialize concurrent writes to the same user.
type UserStore interface {
	// FindOrCreate returns the user linked to the key, the user with the key's email, or a new
	// user that is not persisted yet.
	FindOrCreate(ctx context.Context, key LoginKey) (*models.User, LinkState, error)
	// Save persists the user with its roles replaced and links the external identity.
	Save(ctx context.Context, user *models.User, link ExternalLink) error
}

// ExternalLoginService runs an external login from the verified assertion to the persisted user.
type ExternalLoginService struct {
	store      UserStore
	hooks      LoginHooks
	claimTypes claims.ClaimTypeMap
	autoLink   bool
}

// NewExternalLoginService creates a new external login service.
func NewExternalLoginService(
	store UserStore,
	hooks LoginHooks,
	claimTypes claims.ClaimTypeMap,
	autoLink bool,
) *ExternalLoginService {
	return &ExternalLoginService{
		store:      store,
		hooks:      hooks,
		claimTypes: claimTypes,
		autoLink:   autoLink,
	}
}

// SignIn validates the assertion, resolves the local user and asks the login hooks for a decision.
//
// An error wrapping claims.ErrIntegrationFault means the provider handed back an assertion that
// must abort the attempt. A denied decision is not an error; nothing is persisted in that case.
// On an allowed decision the user is saved and returned.
func (s *ExternalLoginService) SignIn(
	ctx context.Context,
	assertion *claims.Assertion,
	tokens map[string]string,
) (*models.User, Decision, error) {
	provider := ""
	if assertion != nil {
		provider = assertion.AuthenticationType
	}

	normalized, err := claims.ValidateTransport(assertion, s.claimTypes)
	if err != nil {
		countLogin(provider, OutcomeAborted)
		return nil, Decision{}, err
	}

	providerKey, _ := normalized.FindFirst(s.claimTypes.Subject)
	if providerKey == "" {
		countLogin(provider, OutcomeAborted)

		return nil, Decision{}, fmt.Errorf("%w: claim with type %q was not received",
			claims.ErrIntegrationFault, s.claimTypes.Subject)
	}

	key := LoginKey{
		LoginProvider: provider,
		ProviderKey:   providerKey,
	}
	key.Email, _ = normalized.FindFirst(s.claimTypes.Email)
	key.Name, _ = normalized.FindFirst(s.claimTypes.Name)

	user, state, err := s.store.FindOrCreate(ctx, key)
	if err != nil {
		countLogin(provider, OutcomeFailed)
		return nil, Decision{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	if state != LinkExisting && !s.autoLink {
		log.Warn().Str("provider", provider).Msg("external identity is not linked and auto-linking is disabled")
		countLogin(provider, OutcomeDenied)

		return nil, Decision{Allow: false}, nil
	}

	if state == LinkNewUser {
		s.hooks.OnAutoLink(user, normalized)
	}

	decision := s.hooks.OnExternalLogin(user, normalized)
	if !decision.Allow {
		log.Warn().Str("provider", provider).Stringer("link", state).Msg("external login denied")
		countLogin(provider, OutcomeDenied)

		return nil, decision, nil
	}

	link := ExternalLink{
		LoginProvider: provider,
		ProviderKey:   providerKey,
		Tokens:        tokens,
	}

	if err = s.store.Save(ctx, user, link); err != nil {
		countLogin(provider, OutcomeFailed)

		if errors.Is(err, ErrUserNameOrEmailExists) {
			log.Warn().Err(err).Str("provider", provider).Msg("external login conflicts with another user")
		}

		return nil, Decision{}, fmt.Errorf("failed to save user: %w", err)
	}

	countLogin(provider, OutcomeAllowed)

	return user, decision, nil
}
