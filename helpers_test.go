package auth_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/wheretogonext/go-auth"
	"github.com/wheretogonext/go-auth/repository"
	"github.com/wheretogonext/go-auth/social"

	_ "github.com/mattn/go-sqlite3"
)

const testSecret = "test-signing-secret"

func setupStore(t *testing.T) *repository.AccountRepository {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, repository.Migrate(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})

	return repository.NewAccountRepository(db)
}

func newResolver(t *testing.T, store auth.AccountStore, opts ...auth.ResolverOption) *auth.IdentityResolver {
	t.Helper()

	tokens := auth.NewTokenService(testSecret, "", nil)
	opts = append([]auth.ResolverOption{
		auth.WithPasswordHasher(auth.NewBcryptHasher(bcrypt.MinCost)),
		auth.WithLogger(nopLogger{}),
	}, opts...)

	return auth.NewIdentityResolver(store, tokens, opts...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type logEntry struct {
	level string
	msg   string
	args  []any
}

func (e logEntry) attr(key string) any {
	for i := 0; i+1 < len(e.args); i += 2 {
		if e.args[i] == key {
			return e.args[i+1]
		}
	}
	return nil
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

// MockProvider implements social.IdentityProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "google"
}

func (m *MockProvider) UserInfo(ctx context.Context, accessToken string) (*social.Profile, error) {
	args := m.Called(ctx, accessToken)
	profile, _ := args.Get(0).(*social.Profile)
	return profile, args.Error(1)
}

// MockStore implements auth.AccountStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) account(args mock.Arguments) (*auth.Account, error) {
	acc, _ := args.Get(0).(*auth.Account)
	return acc, args.Error(1)
}

func (m *MockStore) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return m.account(m.Called(ctx, id))
}

func (m *MockStore) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return m.account(m.Called(ctx, email))
}

func (m *MockStore) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return m.account(m.Called(ctx, username))
}

func (m *MockStore) FindByExternalID(ctx context.Context, externalID string) (*auth.Account, error) {
	return m.account(m.Called(ctx, externalID))
}

func (m *MockStore) FindByEmailOrUsername(ctx context.Context, email, username string) (*auth.Account, error) {
	return m.account(m.Called(ctx, email, username))
}

func (m *MockStore) Create(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	return m.account(m.Called(ctx, account))
}

func (m *MockStore) Update(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	return m.account(m.Called(ctx, account))
}
