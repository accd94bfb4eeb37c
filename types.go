package auth

import (
	"context"
	"log/slog"

	"github.com/wheretogonext/go-auth/social"
)

// Logger is the logging contract used across the package. Args are
// key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetRoutePrefix() string
	IsDevelopment() bool
	IsDebug() bool
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}

// AccountStore is the credential store. Implementations must enforce the
// email, username and external id uniqueness at write time and report
// violations as conflict errors.
type AccountStore interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByExternalID(ctx context.Context, externalID string) (*Account, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*Account, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	Update(ctx context.Context, account *Account) (*Account, error)
}

// ExternalIdentityProvider resolves an access token into a profile
type ExternalIdentityProvider = social.IdentityProvider

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) {
	slog.Default().Debug("AUTH "+msg, args...)
}

func (d defLogger) Info(msg string, args ...any) {
	slog.Default().Info("AUTH "+msg, args...)
}

func (d defLogger) Warn(msg string, args ...any) {
	slog.Default().Warn("AUTH "+msg, args...)
}

func (d defLogger) Error(msg string, args ...any) {
	slog.Default().Error("AUTH "+msg, args...)
}
