package claims

import (
	"errors"
	"fmt"
)

// ErrIntegrationFault is returned when the provider or the transport handed back an
// assertion no correct deployment produces. It must abort the login attempt.
var ErrIntegrationFault = errors.New("identity provider integration fault")

// ValidateTransport checks the assertion received from the OIDC handshake before any
// extraction takes place. The assertion must exist, carry claims and carry the display
// name under m.NameSource. An empty display name passes, it is denied later by the
// authorization gate.
//
// The returned assertion is a copy with the display name added under m.Name, so the
// canonical identity name resolves. The input is not modified.
func ValidateTransport(a *Assertion, m ClaimTypeMap) (*Assertion, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: assertion is nil", ErrIntegrationFault)
	}

	if len(a.Claims) == 0 {
		return nil, fmt.Errorf("%w: did not receive claims", ErrIntegrationFault)
	}

	name, ok := a.FindFirst(m.NameSource)
	if !ok {
		return nil, fmt.Errorf("%w: claim with type %q was not received", ErrIntegrationFault, m.NameSource)
	}

	normalized := a
	if m.Name != m.NameSource {
		normalized = a.With(Claim{Type: m.Name, Value: name})
	}

	return normalized, nil
}
