package domain

// Identity is the signed-in user as reported by the authentication provider.
type Identity struct {
	Email         string `json:"email"`
	IsAnonymous   bool   `json:"isAnonymous"`
	UID           string `json:"uid"`
	EmailVerified bool   `json:"emailVerified"`
}

// DefaultIdentity returns the anonymous placeholder used before sign-in and after sign-out.
func DefaultIdentity() Identity {
	return Identity{IsAnonymous: true}
}

// IsSignedIn reports whether remote per-user calls can be keyed by this identity.
func (i Identity) IsSignedIn() bool {
	return i.UID != ""
}
