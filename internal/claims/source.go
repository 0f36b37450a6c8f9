package claims

import (
	"fmt"
	"sort"
	"strconv"
)

// InboundClaimTypeMap renames well-known JWT claim names to namespaced claim types.
// "name" is deliberately absent, it stays a bare "name" claim.
var InboundClaimTypeMap = map[string]string{ //nolint:gochecknoglobals
	"sub":         TypeNameIdentifier,
	"email":       TypeEmail,
	"roles":       TypeRole,
	"role":        TypeRole,
	"given_name":  TypeGivenName,
	"family_name": TypeSurname,
	"unique_name": TypeName,
	"upn":         TypeUPN,
}

// Claimer is implemented by tokens that can decode their claim set, like *oidc.IDToken.
type Claimer interface {
	Claims(v interface{}) error
}

// FromClaimer decodes the claim set of c and converts it with FromIDToken.
func FromClaimer(authenticationType string, c Claimer) (*Assertion, error) {
	raw := map[string]interface{}{}

	if err := c.Claims(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}

	return FromIDToken(authenticationType, raw), nil
}

// FromIDToken converts a decoded ID token claim set into an Assertion.
// Keys are visited in sorted order so the result is deterministic. Arrays produce one
// claim per element, nested objects are skipped.
func FromIDToken(authenticationType string, raw map[string]interface{}) *Assertion {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	a := NewAssertion(authenticationType)

	for _, k := range keys {
		claimType := k
		if mapped, ok := InboundClaimTypeMap[k]; ok {
			claimType = mapped
		}

		switch v := raw[k].(type) {
		case []interface{}:
			for _, item := range v {
				if s, ok := scalar(item); ok {
					a.Claims = append(a.Claims, Claim{Type: claimType, Value: s})
				}
			}
		case []string:
			for _, s := range v {
				a.Claims = append(a.Claims, Claim{Type: claimType, Value: s})
			}
		default:
			if s, ok := scalar(v); ok {
				a.Claims = append(a.Claims, Claim{Type: claimType, Value: s})
			}
		}
	}

	return a
}

func scalar(v interface{}) (string, bool) {
	switch vv := v.(type) {
	case string:
		return vv, true
	case bool:
		return strconv.FormatBool(vv), true
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(vv, 10), true
	case int:
		return strconv.Itoa(vv), true
	default:
		return "", false
	}
}
