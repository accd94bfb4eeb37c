package auth

import (
	"context"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/wheretogonext/go-auth/social"
)

// AuthResult is returned by every successful sign in or sign up
type AuthResult struct {
	Account *Account
	Token   string
	Created bool
}

// IdentityResolver finds or creates accounts for password and external
// identity logins and issues tokens for them.
type IdentityResolver struct {
	store    AccountStore
	hasher   PasswordHasher
	tokens   *TokenService
	provider ExternalIdentityProvider
	logger   Logger
	hashIDs  bool

	dummyOnce sync.Once
	dummyHash string
}

// ResolverOption configures an IdentityResolver
type ResolverOption func(*IdentityResolver)

// WithLogger sets the resolver logger
func WithLogger(logger Logger) ResolverOption {
	return func(r *IdentityResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPasswordHasher overrides the bcrypt hasher
func WithPasswordHasher(hasher PasswordHasher) ResolverOption {
	return func(r *IdentityResolver) {
		if hasher != nil {
			r.hasher = hasher
		}
	}
}

// WithExternalProvider sets the provider used by LoginWithExternalToken
func WithExternalProvider(provider ExternalIdentityProvider) ResolverOption {
	return func(r *IdentityResolver) {
		r.provider = provider
	}
}

// WithHashIDs derives account ids from the normalized email
func WithHashIDs(enabled bool) ResolverOption {
	return func(r *IdentityResolver) {
		r.hashIDs = enabled
	}
}

// NewIdentityResolver returns a resolver over the given store
func NewIdentityResolver(store AccountStore, tokens *TokenService, opts ...ResolverOption) *IdentityResolver {
	r := &IdentityResolver{
		store:  store,
		tokens: tokens,
		hasher: &BcryptHasher{},
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Configured reports whether tokens can be issued
func (r *IdentityResolver) Configured() bool {
	return r.tokens != nil && r.tokens.Configured()
}

// Tokens returns the token service used to sign and verify tokens
func (r *IdentityResolver) Tokens() *TokenService {
	return r.tokens
}

// Register creates a password account and signs a token for it
func (r *IdentityResolver) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if !r.Configured() {
		return nil, ErrMisconfigured
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(in.Email)
	username := NormalizeUsername(in.Username)

	existing, err := r.store.FindByEmailOrUsername(ctx, email, username)
	if err != nil && !IsNotFoundError(err) {
		return nil, r.storeError(err, "register lookup")
	}

	if existing != nil {
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	}

	hash, err := r.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	account := &Account{
		ID:           r.newAccountID(email),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
	}

	if err := account.CanAuthenticate(); err != nil {
		return nil, err
	}

	account, err = r.store.Create(ctx, account)
	if err != nil {
		return nil, r.storeError(err, "register create")
	}

	r.logger.Info("account registered", "account_id", account.ID.String())

	return r.result(account, true)
}

// Login authenticates with an email or username and a password. Every
// failure after validation is reported as ErrInvalidCredentials.
func (r *IdentityResolver) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if !r.Configured() {
		return nil, ErrMisconfigured
	}

	if err := (LoginInput{Identifier: identifier, Password: password}).Validate(); err != nil {
		return nil, err
	}

	var (
		account *Account
		err     error
	)

	if strings.Contains(identifier, "@") {
		account, err = r.store.FindByEmail(ctx, NormalizeEmail(identifier))
	} else {
		account, err = r.store.FindByUsername(ctx, NormalizeUsername(identifier))
	}

	if err != nil && !IsNotFoundError(err) {
		return nil, r.storeError(err, "login lookup")
	}

	if account == nil || !account.HasPassword() {
		// keep the response time close to a real mismatch
		r.hasher.VerifyPassword(password, r.placeholderHash())
		r.logger.Debug("login rejected", "reason", "unknown account or no password")
		return nil, ErrInvalidCredentials
	}

	if !r.hasher.VerifyPassword(password, account.PasswordHash) {
		r.logger.Debug("login rejected", "reason", "password mismatch", "account_id", account.ID.String())
		return nil, ErrInvalidCredentials
	}

	return r.result(account, false)
}

// LoginWithExternalToken resolves an access token through the external
// identity provider and signs in the matching account.
func (r *IdentityResolver) LoginWithExternalToken(ctx context.Context, accessToken string) (*AuthResult, error) {
	if !r.Configured() {
		return nil, ErrMisconfigured
	}

	if err := (ExternalLoginInput{Credential: accessToken}).Validate(); err != nil {
		return nil, err
	}

	if r.provider == nil {
		return nil, goerrors.New("external identity provider not configured", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}

	profile, err := r.provider.UserInfo(ctx, accessToken)
	if err != nil {
		attrs := []any{"provider", r.provider.Name(), "error", err}
		if detail, ok := social.Details(err); ok {
			attrs = append(attrs, detail.LogAttrs()[2:]...)
		}

		if social.IsUserInfoFailed(err) || social.IsMissingAccessToken(err) {
			r.logger.Warn("external token rejected", attrs...)
			return nil, ErrInvalidExternalToken
		}

		r.logger.Error("external profile fetch failed", attrs...)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to fetch external profile")
	}

	if profile == nil {
		return nil, ErrInvalidExternalToken
	}

	return r.LoginOrLinkExternal(ctx, *profile)
}

// LoginOrLinkExternal signs in by external identity. Resolution order is
// external id, then email (linking the identity, replacing any previous
// link), then a new account.
func (r *IdentityResolver) LoginOrLinkExternal(ctx context.Context, profile social.Profile) (*AuthResult, error) {
	if !r.Configured() {
		return nil, ErrMisconfigured
	}

	if !profile.HasIdentity() {
		return nil, NewValidationError(MsgExternalEmailRequired)
	}

	externalID := strings.TrimSpace(profile.ProviderUserID)
	email := NormalizeEmail(profile.Email)

	account, err := r.store.FindByExternalID(ctx, externalID)
	if err != nil && !IsNotFoundError(err) {
		return nil, r.storeError(err, "external lookup")
	}

	if account != nil {
		account.RefreshProfile(profile.Name, profile.AvatarURL)
		if account, err = r.store.Update(ctx, account); err != nil {
			return nil, r.storeError(err, "external refresh")
		}
		return r.result(account, false)
	}

	account, err = r.store.FindByEmail(ctx, email)
	if err != nil && !IsNotFoundError(err) {
		return nil, r.storeError(err, "external email lookup")
	}

	if account != nil {
		if account.HasExternalIdentity() {
			r.logger.Info("external identity replaced", "account_id", account.ID.String(), "provider", profile.Provider)
		}

		account.GoogleID = externalID
		account.RefreshProfile(profile.Name, profile.AvatarURL)
		if account, err = r.store.Update(ctx, account); err != nil {
			return nil, r.storeError(err, "external link")
		}

		r.logger.Info("external identity linked", "account_id", account.ID.String(), "provider", profile.Provider)
		return r.result(account, false)
	}

	account = &Account{
		ID:       r.newAccountID(email),
		Email:    email,
		GoogleID: externalID,
	}
	account.RefreshProfile(profile.Name, profile.AvatarURL)

	if err := account.CanAuthenticate(); err != nil {
		return nil, err
	}

	if account, err = r.store.Create(ctx, account); err != nil {
		return nil, r.storeError(err, "external create")
	}

	r.logger.Info("account registered", "account_id", account.ID.String(), "provider", profile.Provider)

	return r.result(account, true)
}

// AccountFromToken verifies a token and loads the account it was issued for
func (r *IdentityResolver) AccountFromToken(ctx context.Context, token string) (*Account, error) {
	if !r.Configured() {
		return nil, ErrMisconfigured
	}

	accountID, err := r.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	return r.AccountByID(ctx, accountID)
}

// AccountByID loads an account
func (r *IdentityResolver) AccountByID(ctx context.Context, accountID string) (*Account, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, ErrInvalidToken
	}

	account, err := r.store.FindByID(ctx, accountID)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, r.storeError(err, "account lookup")
	}

	return account, nil
}

func (r *IdentityResolver) result(account *Account, created bool) (*AuthResult, error) {
	token, err := r.tokens.Issue(account.ID.String())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, Token: token, Created: created}, nil
}

// storeError passes conflict, not found and storage errors through and
// wraps anything else as a storage fault.
func (r *IdentityResolver) storeError(err error, operation string) error {
	if IsConflictError(err) || IsNotFoundError(err) || IsStorageError(err) {
		return err
	}
	r.logger.Error("account store failure", "operation", operation, "error", err)
	return NewStorageError(err, "Database error. Try again.")
}

func (r *IdentityResolver) newAccountID(email string) uuid.UUID {
	if r.hashIDs {
		if id, err := hashid.NewUUID(email); err == nil {
			return id
		}
	}
	return uuid.New()
}

func (r *IdentityResolver) placeholderHash() string {
	r.dummyOnce.Do(func() {
		r.dummyHash, _ = r.hasher.HashPassword(uuid.NewString())
	})
	return r.dummyHash
}
