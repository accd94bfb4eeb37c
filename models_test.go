package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/wheretogonext/go-auth"
)

func TestAccountPublicOmitsSecrets(t *testing.T) {
	account := &auth.Account{
		ID:           uuid.New(),
		Email:        "tess@example.com",
		Username:     "tess",
		PasswordHash: "$2a$10$secret",
		GoogleID:     "g-123",
		Name:         "Tess",
		Picture:      "https://example.com/tess.png",
	}

	public := account.Public()
	assert.Equal(t, account.ID.String(), public.ID)
	assert.Equal(t, "tess@example.com", public.Email)
	assert.Equal(t, "Tess", public.Name)
	assert.Equal(t, "https://example.com/tess.png", public.Picture)

	raw, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "g-123")

	raw, err = json.Marshal(account)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$10$secret")
}

func TestAccountAuthMethods(t *testing.T) {
	assert.ErrorIs(t, (&auth.Account{Email: "a@example.com"}).CanAuthenticate(), auth.ErrNoAuthMethod)
	assert.NoError(t, (&auth.Account{PasswordHash: "x"}).CanAuthenticate())
	assert.NoError(t, (&auth.Account{GoogleID: "g"}).CanAuthenticate())

	var missing *auth.Account
	assert.False(t, missing.HasPassword())
	assert.False(t, missing.HasExternalIdentity())
	assert.Equal(t, auth.PublicAccount{}, missing.Public())
}

func TestAccountRefreshProfile(t *testing.T) {
	account := &auth.Account{Name: "Old", Picture: "old.png"}

	account.RefreshProfile("", "  ")
	assert.Equal(t, "Old", account.Name)
	assert.Equal(t, "old.png", account.Picture)

	account.RefreshProfile(" New ", "new.png")
	assert.Equal(t, "New", account.Name)
	assert.Equal(t, "new.png", account.Picture)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "tess@example.com", auth.NormalizeEmail("  Tess@Example.COM "))
	assert.Equal(t, "Tess", auth.NormalizeUsername("  Tess "))
}
