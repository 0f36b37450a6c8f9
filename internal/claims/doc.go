// Package claims turns the claim set handed back by an OpenID Connect provider
// into the small, typed view the backoffice login needs.
//
// Providers are free to send arbitrary claim type strings. Azure AD for example
// sends the display name as a bare "name" claim instead of the namespaced
// identity name type. The package therefore never hardcodes lookup keys in the
// callers; a ClaimTypeMap names the claim type used for every semantic field.
//
// The package provides three steps of the login flow:
//   - FromIDToken converts a verified ID token claim set into an Assertion,
//     renaming well-known JWT claims through InboundClaimTypeMap.
//   - ValidateTransport is the transport gate. It rejects assertions that can
//     only come from a misbehaving provider or transport with ErrIntegrationFault
//     and normalizes the display name claim.
//   - Extract pulls the RequiredClaims (name, email, role) out of an Assertion
//     by first match.
//
// All functions are pure and safe for concurrent use.
package claims
