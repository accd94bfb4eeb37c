//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost is the bcrypt work factor for stored passwords
const DefaultPasswordCost = bcrypt.MinCost

func passwordHashCost() int {
	// race builds are slow enough without a full work factor
	return DefaultPasswordCost
}
