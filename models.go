package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the credential store model. Empty optional strings are stored
// as NULL so the unique indexes on username and google_id stay sparse.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	Username      string    `bun:"username,nullzero,unique" json:"username,omitempty"`
	PasswordHash  string    `bun:"password_hash,nullzero" json:"-"`
	GoogleID      string    `bun:"google_id,nullzero,unique" json:"-"`
	Name          string    `bun:"name,nullzero" json:"name,omitempty"`
	Picture       string    `bun:"picture,nullzero" json:"picture,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// PublicAccount is the projection returned to clients
type PublicAccount struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Public returns the client safe projection, it never includes the
// password hash.
func (a *Account) Public() PublicAccount {
	if a == nil {
		return PublicAccount{}
	}
	return PublicAccount{
		ID:      a.ID.String(),
		Email:   a.Email,
		Name:    a.Name,
		Picture: a.Picture,
	}
}

// HasPassword reports whether the account can log in with a password
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != ""
}

// HasExternalIdentity reports whether a provider identity is linked
func (a *Account) HasExternalIdentity() bool {
	return a != nil && a.GoogleID != ""
}

// CanAuthenticate checks the account has at least one auth method
func (a *Account) CanAuthenticate() error {
	if !a.HasPassword() && !a.HasExternalIdentity() {
		return ErrNoAuthMethod
	}
	return nil
}

// RefreshProfile overwrites profile fields with the non empty values given
func (a *Account) RefreshProfile(name, picture string) *Account {
	if name = strings.TrimSpace(name); name != "" {
		a.Name = name
	}
	if picture = strings.TrimSpace(picture); picture != "" {
		a.Picture = picture
	}
	return a
}

// NormalizeEmail trims and lower cases an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims a username
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
