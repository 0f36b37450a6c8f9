package claims

// Namespaced identity claim types.
const (
	// TypeName is the canonical identity name claim type.
	TypeName = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	// TypeEmail is the email address claim type.
	TypeEmail = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	// TypeRole is the role claim type.
	TypeRole = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	// TypeNameIdentifier is the provider scoped subject identifier claim type.
	TypeNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	// TypeGivenName is the given name claim type.
	TypeGivenName = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/givenname"
	// TypeSurname is the family name claim type.
	TypeSurname = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/surname"
	// TypeUPN is the user principal name claim type.
	TypeUPN = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/upn"

	// TypeDisplayName is the bare claim type most OIDC providers use for the display name.
	TypeDisplayName = "name"
)

// Claim is a single typed fact asserted by the identity provider.
type Claim struct {
	Type  string
	Value string
}

// Assertion is the claim set of one federated sign-in attempt.
// The order of Claims is the order the provider sent them in; a type may appear more than once.
type Assertion struct {
	Claims             []Claim
	AuthenticationType string
}

// NewAssertion creates an Assertion for the given authentication scheme.
func NewAssertion(authenticationType string, claims ...Claim) *Assertion {
	return &Assertion{
		Claims:             claims,
		AuthenticationType: authenticationType,
	}
}

// FindFirst returns the value of the first claim with exactly the given type.
func (a *Assertion) FindFirst(claimType string) (string, bool) {
	if a == nil {
		return "", false
	}

	for _, c := range a.Claims {
		if c.Type == claimType {
			return c.Value, true
		}
	}

	return "", false
}

// FindAll returns the values of all claims with the given type in order.
func (a *Assertion) FindAll(claimType string) []string {
	if a == nil {
		return nil
	}

	var out []string

	for _, c := range a.Claims {
		if c.Type == claimType {
			out = append(out, c.Value)
		}
	}

	return out
}

// With returns a copy of the assertion with the given claims appended.
func (a *Assertion) With(claims ...Claim) *Assertion {
	out := &Assertion{
		Claims:             make([]Claim, 0, len(a.Claims)+len(claims)),
		AuthenticationType: a.AuthenticationType,
	}

	out.Claims = append(out.Claims, a.Claims...)
	out.Claims = append(out.Claims, claims...)

	return out
}
