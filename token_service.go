package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenTTL is the validity window of issued tokens
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService signs and verifies account tokens
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	ttl        time.Duration
	now        func() time.Time
	logger     Logger
}

// TokenOption configures a TokenService
type TokenOption func(*TokenService)

// WithClock sets the time source used to stamp and check tokens
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance. An empty signing key
// is accepted, every Issue and Verify call will then fail with
// ErrMisconfigured.
func NewTokenService(signingKey, issuer string, audience []string, opts ...TokenOption) *TokenService {
	ts := &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        DefaultTokenTTL,
		now:        time.Now,
		logger:     defLogger{},
	}

	if len(audience) > 0 {
		ts.audience = append(jwt.ClaimStrings(nil), audience...)
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

// NewTokenServiceFromConfig builds a TokenService from the auth config
func NewTokenServiceFromConfig(cfg Config, opts ...TokenOption) *TokenService {
	return NewTokenService(cfg.GetSigningKey(), cfg.GetIssuer(), cfg.GetAudience(), opts...)
}

// Configured reports whether a signing key is present
func (ts *TokenService) Configured() bool {
	return len(ts.signingKey) > 0
}

// TTL returns the token validity window
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue signs a token whose subject is the account ID
func (ts *TokenService) Issue(accountID string) (string, error) {
	if !ts.Configured() {
		return "", ErrMisconfigured
	}

	if accountID == "" {
		return "", goerrors.New("account id is required", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   accountID,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		UID: accountID,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.signClaims(claims)
}

func (ts *TokenService) signClaims(claims *JWTClaims) (string, error) {
	if !ts.Configured() {
		return "", ErrMisconfigured
	}

	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Verify checks the token and returns the account ID it was issued for
func (ts *TokenService) Verify(tokenString string) (string, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

// Validate parses and validates a token string, returning its claims
func (ts *TokenService) Validate(tokenString string) (*JWTClaims, error) {
	if !ts.Configured() {
		return nil, ErrMisconfigured
	}

	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
		jwt.WithExpirationRequired(),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Warn("token verify unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, ErrInvalidToken.Message).
			WithTextCode(TextCodeInvalidToken).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID() == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
