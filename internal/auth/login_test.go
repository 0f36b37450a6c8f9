package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/claims"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/controller/user"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
)

// memStore is a UserStore that records calls.
type memStore struct {
	user    *models.User
	state   auth.LinkState
	findErr error
	saveErr error

	saved []auth.ExternalLink
}

func (s *memStore) FindOrCreate(_ context.Context, key auth.LoginKey) (*models.User, auth.LinkState, error) {
	if s.findErr != nil {
		return nil, s.state, s.findErr
	}

	if s.user == nil {
		return &models.User{Username: key.Email, Email: key.Email, DisplayName: key.Name}, auth.LinkNewUser, nil
	}

	return s.user, s.state, nil
}

func (s *memStore) Save(_ context.Context, _ *models.User, link auth.ExternalLink) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.saved = append(s.saved, link)

	return nil
}

func newLoginService(store auth.UserStore, autoLink bool) *auth.ExternalLoginService {
	m := claims.DefaultClaimTypeMap()
	opts := auth.AutoLinkOptions{AutoLinkExternalAccount: autoLink}

	return auth.NewExternalLoginService(store, auth.NewReconciler(m, opts), m, autoLink)
}

// providerAssertion is an assertion as it arrives from the provider, before the name is normalized.
func providerAssertion(claimList ...claims.Claim) *claims.Assertion {
	return claims.NewAssertion("Backoffice.AzureAD", claimList...)
}

var (
	subClaim   = claims.Claim{Type: claims.TypeNameIdentifier, Value: "sub-1"}
	nameClaim  = claims.Claim{Type: claims.TypeDisplayName, Value: "Jane Doe"}
	emailClaim = claims.Claim{Type: claims.TypeEmail, Value: "jane@example.com"}
	roleClaim  = claims.Claim{Type: claims.TypeRole, Value: "editor"}
)

func TestSignInAllowed(t *testing.T) {
	store := &memStore{}
	tokens := map[string]string{"id_token": "raw"}

	u, decision, err := newLoginService(store, true).SignIn(context.Background(),
		providerAssertion(subClaim, nameClaim, emailClaim, roleClaim), tokens)
	require.NoError(t, err)

	assert.True(t, decision.Allow)
	require.NotNil(t, u)
	assert.Equal(t, "jane@example.com", u.Username)
	assert.Equal(t, "Jane Doe", u.DisplayName)
	assert.True(t, u.IsApproved)
	assert.Equal(t, []string{"editor"}, u.RoleAliases())

	require.Len(t, store.saved, 1)
	assert.Equal(t, auth.ExternalLink{
		LoginProvider: "Backoffice.AzureAD",
		ProviderKey:   "sub-1",
		Tokens:        tokens,
	}, store.saved[0])
}

func TestSignInDenied(t *testing.T) {
	existing := &models.User{ID: 3, Username: "old@example.com", Email: "old@example.com"}
	existing.SetRoles("admin")

	store := &memStore{user: existing, state: auth.LinkExisting}

	// no role claim
	u, decision, err := newLoginService(store, true).SignIn(context.Background(),
		providerAssertion(subClaim, nameClaim, emailClaim), nil)
	require.NoError(t, err)

	assert.False(t, decision.Allow)
	assert.Nil(t, u)
	assert.Empty(t, store.saved)
	assert.Equal(t, []string{"admin"}, existing.RoleAliases())
	assert.Equal(t, "old@example.com", existing.Email)
}

func TestSignInEmptyNameIsDenied(t *testing.T) {
	store := &memStore{}

	u, decision, err := newLoginService(store, true).SignIn(context.Background(),
		providerAssertion(subClaim, claims.Claim{Type: claims.TypeDisplayName, Value: ""}, emailClaim, roleClaim), nil)
	require.NoError(t, err)

	assert.False(t, decision.Allow)
	assert.Nil(t, u)
	assert.Empty(t, store.saved)
}

func TestSignInIntegrationFault(t *testing.T) {
	tests := []struct {
		name      string
		assertion *claims.Assertion
	}{
		{name: "nil assertion", assertion: nil},
		{name: "zero claims", assertion: providerAssertion()},
		{name: "no name claim", assertion: providerAssertion(subClaim, emailClaim, roleClaim)},
		{name: "no subject claim", assertion: providerAssertion(nameClaim, emailClaim, roleClaim)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}

			u, decision, err := newLoginService(store, true).SignIn(context.Background(), tt.assertion, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, claims.ErrIntegrationFault))
			assert.False(t, decision.Allow)
			assert.Nil(t, u)
			assert.Empty(t, store.saved)
		})
	}
}

func TestSignInAutoLinkDisabled(t *testing.T) {
	for _, state := range []auth.LinkState{auth.LinkByEmail, auth.LinkNewUser} {
		t.Run(state.String(), func(t *testing.T) {
			store := &memStore{user: &models.User{ID: 1}, state: state}

			u, decision, err := newLoginService(store, false).SignIn(context.Background(),
				providerAssertion(subClaim, nameClaim, emailClaim, roleClaim), nil)
			require.NoError(t, err)

			assert.False(t, decision.Allow)
			assert.Nil(t, u)
			assert.Empty(t, store.saved)
		})
	}
}

func TestSignInStoreErrors(t *testing.T) {
	boom := errors.New("database is gone") //nolint:goerr113

	_, _, err := newLoginService(&memStore{findErr: boom}, true).SignIn(context.Background(),
		providerAssertion(subClaim, nameClaim, emailClaim, roleClaim), nil)
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, claims.ErrIntegrationFault))

	_, _, err = newLoginService(&memStore{saveErr: boom}, true).SignIn(context.Background(),
		providerAssertion(subClaim, nameClaim, emailClaim, roleClaim), nil)
	require.ErrorIs(t, err, boom)
}

func TestSignInWithDatabase(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	// a local user with the same email is linked
	local := &models.User{Username: "jane", Email: "jane@example.com", DisplayName: "Jane"}
	local.SetRoles(models.RoleEditor, models.RoleAdmin)
	require.NoError(t, db.Create(local).Error)

	svc := newLoginService(user.New(db), true)

	u, decision, err := svc.SignIn(ctx,
		providerAssertion(subClaim, nameClaim, emailClaim, claims.Claim{Type: claims.TypeRole, Value: models.RoleWriter}),
		nil)
	require.NoError(t, err)
	require.True(t, decision.Allow)
	assert.Equal(t, local.ID, u.ID)

	stored, err := user.New(db).Get(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleWriter}, stored.RoleAliases())
	assert.Equal(t, "jane@example.com", stored.Username)
	assert.Equal(t, "Jane Doe", stored.DisplayName)
	assert.True(t, stored.IsApproved)

	// a denied login of the now linked identity changes nothing
	_, decision, err = svc.SignIn(ctx, providerAssertion(subClaim, nameClaim), nil)
	require.NoError(t, err)
	assert.False(t, decision.Allow)

	again, err := user.New(db).Get(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.RoleAliases(), again.RoleAliases())
	assert.True(t, again.IsApproved)

	var links int64
	require.NoError(t, db.Model(&models.ExternalLogin{}).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestSignInUsernameTaken(t *testing.T) {
	db := dbtest.New(t)

	taken := &models.User{Username: "jane@example.com", Email: "someone@example.com"}
	require.NoError(t, db.Create(taken).Error)

	u, decision, err := newLoginService(user.New(db), true).SignIn(context.Background(),
		providerAssertion(subClaim, nameClaim, emailClaim, roleClaim), nil)
	require.ErrorIs(t, err, auth.ErrUserNameOrEmailExists)
	assert.NotContains(t, err.Error(), "failed to save user: failed to save user")
	assert.False(t, errors.Is(err, claims.ErrIntegrationFault))
	assert.False(t, decision.Allow)
	assert.Nil(t, u)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignInDeniedNewUserIsNotPersisted(t *testing.T) {
	db := dbtest.New(t)

	_, decision, err := newLoginService(user.New(db), true).SignIn(context.Background(),
		providerAssertion(subClaim, nameClaim, emailClaim), nil)
	require.NoError(t, err)
	assert.False(t, decision.Allow)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
