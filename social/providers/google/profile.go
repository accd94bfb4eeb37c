package google

import "github.com/wheretogonext/go-auth/social"

// googleUserInfo covers both the v2 (id) and OIDC (sub) userinfo shapes
type googleUserInfo struct {
	ID            string `json:"id"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	VerifiedEmail *bool  `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

func (u *googleUserInfo) subject() string {
	if u.ID != "" {
		return u.ID
	}
	return u.Sub
}

func (u *googleUserInfo) verified() bool {
	if u.VerifiedEmail != nil {
		return *u.VerifiedEmail
	}
	return u.EmailVerified != nil && *u.EmailVerified
}

func mapProfile(info *googleUserInfo) *social.Profile {
	if info == nil {
		return nil
	}

	return &social.Profile{
		ProviderUserID: info.subject(),
		Provider:       "google",
		Email:          info.Email,
		EmailVerified:  info.verified(),
		Name:           info.Name,
		AvatarURL:      info.Picture,
		Raw: map[string]any{
			"id":          info.ID,
			"sub":         info.Sub,
			"email":       info.Email,
			"name":        info.Name,
			"given_name":  info.GivenName,
			"family_name": info.FamilyName,
			"picture":     info.Picture,
			"locale":      info.Locale,
		},
	}
}
