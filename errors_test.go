package auth_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	auth "github.com/wheretogonext/go-auth"
)

func TestErrorClassifiers(t *testing.T) {
	storage := auth.NewStorageError(errors.New("disk I/O error"), "Database error. Try again.")

	tests := []struct {
		name       string
		err        error
		validation bool
		conflict   bool
		storage    bool
		notFound   bool
		config     bool
		token      bool
	}{
		{name: "validation", err: auth.NewValidationError(auth.MsgEmailRequired), validation: true},
		{name: "empty password", err: auth.ErrNoEmptyString, validation: true},
		{name: "email taken", err: auth.ErrEmailTaken, conflict: true},
		{name: "username taken", err: auth.ErrUsernameTaken, conflict: true},
		{name: "external id taken", err: auth.ErrExternalIDTaken, conflict: true},
		{name: "generic conflict", err: auth.ErrAccountConflict, conflict: true},
		{name: "storage", err: storage, storage: true},
		{name: "not found", err: auth.ErrAccountNotFound, notFound: true},
		{name: "misconfigured", err: auth.ErrMisconfigured, config: true},
		{name: "invalid token", err: auth.ErrInvalidToken, token: true},
		{name: "expired token", err: auth.ErrTokenExpired, token: true},
		{name: "wrapped conflict", err: fmt.Errorf("create: %w", auth.ErrEmailTaken), conflict: true},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, auth.IsValidationError(tt.err), "validation")
			assert.Equal(t, tt.conflict, auth.IsConflictError(tt.err), "conflict")
			assert.Equal(t, tt.storage, auth.IsStorageError(tt.err), "storage")
			assert.Equal(t, tt.notFound, auth.IsNotFoundError(tt.err), "not found")
			assert.Equal(t, tt.config, auth.IsConfigurationError(tt.err), "config")
			assert.Equal(t, tt.token, auth.IsInvalidTokenError(tt.err), "token")
		})
	}
}

func TestNewStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := auth.NewStorageError(cause, "Database unavailable.")

	assert.Equal(t, goerrors.CategoryOperation, err.Category)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.Equal(t, auth.TextCodeStorageFault, err.TextCode)
	assert.ErrorIs(t, err, cause)
}

func TestInvalidCredentialsMessage(t *testing.T) {
	assert.Equal(t, "Invalid email/username or password.", auth.ErrInvalidCredentials.Message)
	assert.Equal(t, goerrors.CategoryAuth, auth.ErrInvalidCredentials.Category)
	assert.Equal(t, http.StatusUnauthorized, auth.ErrInvalidCredentials.Code)
}
