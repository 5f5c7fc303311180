package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider          string // e.g. "google"
	ExternalSubjectID string // provider-scoped unique user identifier (sub)
	Email             string // email asserted by the provider
	EmailVerified     bool   // whether provider asserts email ownership
	GivenName         string
	FamilyName        string
}
