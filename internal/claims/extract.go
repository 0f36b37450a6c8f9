package claims

// ClaimTypeMap maps the semantic fields of a login to provider claim types.
type ClaimTypeMap struct {
	// Name is the claim type holding the canonical display name.
	Name string
	// Email is the claim type holding the email address.
	Email string
	// Role is the claim type holding the assigned backoffice role.
	Role string
	// Subject is the claim type holding the provider scoped user key.
	Subject string
	// NameSource is the claim type the provider actually sends the display name in.
	// ValidateTransport copies its value to Name.
	NameSource string
}

// DefaultClaimTypeMap returns the claim types used with Azure AD after inbound mapping.
func DefaultClaimTypeMap() ClaimTypeMap {
	return ClaimTypeMap{
		Name:       TypeName,
		Email:      TypeEmail,
		Role:       TypeRole,
		Subject:    TypeNameIdentifier,
		NameSource: TypeDisplayName,
	}
}

// Merge returns m with every non-empty field of override applied.
func (m ClaimTypeMap) Merge(override ClaimTypeMap) ClaimTypeMap {
	if override.Name != "" {
		m.Name = override.Name
	}

	if override.Email != "" {
		m.Email = override.Email
	}

	if override.Role != "" {
		m.Role = override.Role
	}

	if override.Subject != "" {
		m.Subject = override.Subject
	}

	if override.NameSource != "" {
		m.NameSource = override.NameSource
	}

	return m
}

// RequiredClaims is the view of an Assertion the reconciler works with.
// An empty field means the provider did not send the claim.
type RequiredClaims struct {
	Name  string
	Email string
	Role  string
}

// Complete reports whether name, email and role are all present.
func (r RequiredClaims) Complete() bool {
	return r.Name != "" && r.Email != "" && r.Role != ""
}

// Missing returns the names of the absent fields.
func (r RequiredClaims) Missing() []string {
	var missing []string

	if r.Role == "" {
		missing = append(missing, "role")
	}

	if r.Email == "" {
		missing = append(missing, "email")
	}

	if r.Name == "" {
		missing = append(missing, "name")
	}

	return missing
}

// Extract returns the first value of every required claim type.
// Matching is case-sensitive and there is no fallback to alternate claim types.
func Extract(a *Assertion, m ClaimTypeMap) RequiredClaims {
	var rc RequiredClaims

	rc.Name, _ = a.FindFirst(m.Name)
	rc.Email, _ = a.FindFirst(m.Email)
	rc.Role, _ = a.FindFirst(m.Role)

	return rc
}
