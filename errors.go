package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation      = "VALIDATION_ERROR"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeEmailTaken      = "EMAIL_TAKEN"
	TextCodeUsernameTaken   = "USERNAME_TAKEN"
	TextCodeExternalIDTaken = "EXTERNAL_ID_TAKEN"
	TextCodeAccountConflict = "ACCOUNT_CONFLICT"
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeInvalidExtToken = "INVALID_EXTERNAL_TOKEN"
	TextCodeInvalidToken    = "INVALID_TOKEN"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeMisconfigured   = "MISCONFIGURED"
	TextCodeStorageFault    = "STORAGE_FAULT"
	TextCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	TextCodeNoAuthMethod    = "NO_AUTH_METHOD"
)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password can not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailTaken is returned when an account already uses the email
var ErrEmailTaken = goerrors.New("An account with this email already exists.", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrUsernameTaken is returned when an account already uses the username
var ErrUsernameTaken = goerrors.New("Username is already taken.", goerrors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(goerrors.CodeConflict)

// ErrExternalIDTaken is returned when the external identity is linked to another account
var ErrExternalIDTaken = goerrors.New("This Google account is already linked to another account.", goerrors.CategoryConflict).
	WithTextCode(TextCodeExternalIDTaken).
	WithCode(goerrors.CodeConflict)

// ErrAccountConflict is the generic uniqueness violation
var ErrAccountConflict = goerrors.New("Email or username already in use.", goerrors.CategoryConflict).
	WithTextCode(TextCodeAccountConflict).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials is returned for any failed password login. It never
// tells the caller which part of the credentials was wrong.
var ErrInvalidCredentials = goerrors.New("Invalid email/username or password.", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidExternalToken is returned when the identity provider rejects the access token
var ErrInvalidExternalToken = goerrors.New("Invalid or expired Google sign-in. Try again.", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidExtToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidToken is returned for tampered or malformed bearer tokens
var ErrInvalidToken = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when the token validity window has elapsed
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrMisconfigured is returned when no signing secret is configured
var ErrMisconfigured = goerrors.New("Server misconfiguration (JWT_SECRET).", goerrors.CategoryInternal).
	WithTextCode(TextCodeMisconfigured).
	WithCode(goerrors.CodeInternal)

// ErrAccountNotFound is returned by the store when no account matches
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrNoAuthMethod guards the invariant that an account can always authenticate
var ErrNoAuthMethod = goerrors.New("account needs a password or a linked external identity", goerrors.CategoryValidation).
	WithTextCode(TextCodeNoAuthMethod).
	WithCode(goerrors.CodeBadRequest)

// NewValidationError builds a client facing validation error
func NewValidationError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

// NewStorageError wraps a backing store failure
func NewStorageError(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, message).
		WithTextCode(TextCodeStorageFault).
		WithCode(http.StatusServiceUnavailable)
}

// IsValidationError reports whether err is a caller input error
func IsValidationError(err error) bool {
	richErr, ok := richError(err)
	return ok && (richErr.Category == goerrors.CategoryValidation || richErr.Category == goerrors.CategoryBadInput)
}

// IsConflictError reports whether err is a uniqueness violation
func IsConflictError(err error) bool {
	richErr, ok := richError(err)
	return ok && richErr.Category == goerrors.CategoryConflict
}

// IsStorageError reports whether err is a transient backing store failure
func IsStorageError(err error) bool {
	return hasTextCode(err, TextCodeStorageFault)
}

// IsNotFoundError reports whether err means the account does not exist
func IsNotFoundError(err error) bool {
	return hasTextCode(err, TextCodeAccountNotFound)
}

// IsConfigurationError reports whether err is a deployment problem
func IsConfigurationError(err error) bool {
	return hasTextCode(err, TextCodeMisconfigured)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsInvalidTokenError reports expired, malformed or tampered tokens
func IsInvalidTokenError(err error) bool {
	return hasTextCode(err, TextCodeInvalidToken) || hasTextCode(err, TextCodeTokenExpired)
}

func richError(err error) (*goerrors.Error, bool) {
	if err == nil {
		return nil, false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr == nil {
		return nil, false
	}
	return richErr, true
}

func hasTextCode(err error, code string) bool {
	richErr, ok := richError(err)
	return ok && richErr.TextCode == code
}
