package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements PasswordHasher
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher, cost outside the bcrypt range falls back
// to the package default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return &BcryptHasher{Cost: cost}
}

// HashPassword will generate a salted password digest
func (h *BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := h.Cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the digest. Malformed
// digests do not match.
func (h *BcryptHasher) VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
