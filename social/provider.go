package social

import (
	"context"
	"strings"
)

// IdentityProvider resolves a provider access token into a normalized profile.
type IdentityProvider interface {
	// Name returns the provider identifier (e.g., "google").
	Name() string

	// UserInfo fetches the user's profile using the access token.
	UserInfo(ctx context.Context, accessToken string) (*Profile, error)
}

// Profile represents normalized user information from an identity provider.
type Profile struct {
	ProviderUserID string
	Provider       string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
	Raw            map[string]any
}

// HasIdentity reports whether the profile carries both a subject and an email
func (p *Profile) HasIdentity() bool {
	return p != nil &&
		strings.TrimSpace(p.ProviderUserID) != "" &&
		strings.TrimSpace(p.Email) != ""
}
