package auth

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	MsgRegisterRequired      = "Email and password are required."
	MsgEmailRequired         = "Email is required."
	MsgPasswordTooShort      = "Password must be at least 8 characters."
	MsgPasswordNeedsNumber   = "Password must contain at least one number."
	MsgPasswordNeedsSymbol   = "Password must contain at least one symbol."
	MsgLoginRequired         = "Email/username and password are required."
	MsgMissingCredential     = "Missing credential (Google access token)"
	MsgExternalEmailRequired = "Google account must have an email"
)

// MinPasswordLength is the minimum number of characters in a password
const MinPasswordLength = 8

var (
	passwordDigit  = regexp.MustCompile(`\d`)
	passwordSymbol = regexp.MustCompile(`[\W_]`)
)

// RegisterInput is the payload for password registration
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Validate checks the payload, the first failing rule wins
func (r RegisterInput) Validate() error {
	if err := validation.Validate(r.Email, validation.Required.Error(MsgRegisterRequired)); err != nil {
		return NewValidationError(err.Error())
	}

	if err := validation.Validate(r.Password, validation.Required.Error(MsgRegisterRequired)); err != nil {
		return NewValidationError(err.Error())
	}

	if err := validation.Validate(NormalizeEmail(r.Email), validation.Required.Error(MsgEmailRequired)); err != nil {
		return NewValidationError(err.Error())
	}

	return ValidatePassword(r.Password)
}

// ValidatePassword applies the password policy
func ValidatePassword(password string) error {
	err := validation.Validate(password,
		validation.Required.Error(MsgPasswordTooShort),
		validation.RuneLength(MinPasswordLength, 0).Error(MsgPasswordTooShort),
		validation.Match(passwordDigit).Error(MsgPasswordNeedsNumber),
		validation.Match(passwordSymbol).Error(MsgPasswordNeedsSymbol),
	)
	if err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// LoginInput is the payload for password login. The identifier is an email
// when it contains an @, a username otherwise.
type LoginInput struct {
	Identifier string `json:"emailOrUsername"`
	Password   string `json:"password"`
}

// Validate checks both fields are present
func (l LoginInput) Validate() error {
	err := validation.Validate(l.Identifier, validation.Required.Error(MsgLoginRequired))
	if err == nil {
		err = validation.Validate(l.Password, validation.Required.Error(MsgLoginRequired))
	}
	if err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// ExternalLoginInput is the payload for external identity sign in
type ExternalLoginInput struct {
	Credential string `json:"credential"`
}

// Validate checks a credential was supplied
func (e ExternalLoginInput) Validate() error {
	if err := validation.Validate(e.Credential, validation.Required.Error(MsgMissingCredential)); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}
