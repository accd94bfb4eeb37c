package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	auth "github.com/wheretogonext/go-auth"

	_ "github.com/mattn/go-sqlite3"
)

func setupAccountRepo(t *testing.T) (*AccountRepository, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())
	require.NoError(t, Migrate(context.Background(), bunDB))

	cleanup := func() {
		_ = bunDB.Close()
	}

	return NewAccountRepository(bunDB), cleanup
}

func passwordAccount(email, username string) *auth.Account {
	return &auth.Account{
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehol",
	}
}

func TestAccountRepositoryCreateAndFind(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	ctx := context.Background()

	created, err := repo.Create(ctx, passwordAccount("tess@example.com", "tess"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "tess@example.com", byID.Email)
	assert.Equal(t, "tess", byID.Username)
	assert.Equal(t, created.PasswordHash, byID.PasswordHash)
	assert.Empty(t, byID.GoogleID)

	byEmail, err := repo.FindByEmail(ctx, "tess@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(ctx, "tess")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)
}

func TestAccountRepositoryNotFound(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.NewString())
	assert.True(t, auth.IsNotFoundError(err))

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, auth.IsNotFoundError(err))

	_, err = repo.FindByUsername(ctx, "")
	assert.True(t, auth.IsNotFoundError(err))

	_, err = repo.FindByExternalID(ctx, "missing")
	assert.True(t, auth.IsNotFoundError(err))

	_, err = repo.Update(ctx, &auth.Account{ID: uuid.New(), Email: "ghost@example.com", GoogleID: "g-1"})
	assert.True(t, auth.IsNotFoundError(err))
}

func TestAccountRepositoryUniqueness(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.Create(ctx, passwordAccount("tess@example.com", "tess"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, passwordAccount("tess@example.com", "other"))
	require.Error(t, err)
	assert.True(t, auth.IsConflictError(err))
	assert.Same(t, auth.ErrEmailTaken, err)

	_, err = repo.Create(ctx, passwordAccount("other@example.com", "tess"))
	require.Error(t, err)
	assert.Same(t, auth.ErrUsernameTaken, err)

	linked := &auth.Account{Email: "g@example.com", GoogleID: "google-1"}
	_, err = repo.Create(ctx, linked)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &auth.Account{Email: "g2@example.com", GoogleID: "google-1"})
	require.Error(t, err)
	assert.Same(t, auth.ErrExternalIDTaken, err)
}

func TestAccountRepositorySparseOptionalColumns(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, passwordAccount(fmt.Sprintf("user%d@example.com", i), ""))
		require.NoError(t, err)
	}
}

func TestAccountRepositoryRequiresAuthMethod(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	_, err := repo.Create(context.Background(), &auth.Account{Email: "bare@example.com"})
	require.Error(t, err)
	assert.False(t, auth.IsConflictError(err))
}

func TestAccountRepositoryFindByEmailOrUsernamePrefersEmail(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	ctx := context.Background()

	byUsername, err := repo.Create(ctx, passwordAccount("first@example.com", "wanderer"))
	require.NoError(t, err)
	byEmail, err := repo.Create(ctx, passwordAccount("second@example.com", "nomad"))
	require.NoError(t, err)

	found, err := repo.FindByEmailOrUsername(ctx, "second@example.com", "wanderer")
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, found.ID)

	found, err = repo.FindByEmailOrUsername(ctx, "third@example.com", "wanderer")
	require.NoError(t, err)
	assert.Equal(t, byUsername.ID, found.ID)

	found, err = repo.FindByEmailOrUsername(ctx, "second@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, found.ID)

	_, err = repo.FindByEmailOrUsername(ctx, "third@example.com", "drifter")
	assert.True(t, auth.IsNotFoundError(err))
}

func TestAccountRepositoryUpdate(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	defer cleanup()

	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	account, err := repo.Create(ctx, passwordAccount("tess@example.com", ""))
	require.NoError(t, err)

	repo.now = func() time.Time { return fixed }

	account.GoogleID = "google-7"
	account.Name = "Tess"
	account.Picture = "https://example.com/tess.png"
	_, err = repo.Update(ctx, account)
	require.NoError(t, err)

	reloaded, err := repo.FindByExternalID(ctx, "google-7")
	require.NoError(t, err)
	assert.Equal(t, account.ID, reloaded.ID)
	assert.Equal(t, "Tess", reloaded.Name)
	assert.Equal(t, "https://example.com/tess.png", reloaded.Picture)
	assert.NotEmpty(t, reloaded.PasswordHash)
	assert.True(t, reloaded.UpdatedAt.Equal(fixed))
}

func TestAccountRepositoryPing(t *testing.T) {
	repo, cleanup := setupAccountRepo(t)
	require.NoError(t, repo.Ping(context.Background()))

	cleanup()
	err := repo.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, auth.IsStorageError(err))
}

func TestMapWriteErrorPostgres(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "email", constraint: "accounts_email_key", want: auth.ErrEmailTaken},
		{name: "username", constraint: "accounts_username_key", want: auth.ErrUsernameTaken},
		{name: "google id", constraint: "accounts_google_id_key", want: auth.ErrExternalIDTaken},
		{name: "unknown", constraint: "accounts_pkey", want: auth.ErrAccountConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
			assert.Same(t, tt.want, mapWriteError(err))
		})
	}

	other := mapWriteError(&pgconn.PgError{Code: "08006"})
	assert.True(t, auth.IsStorageError(other))
}

func TestMapWriteErrorMessageFallback(t *testing.T) {
	err := errors.New("constraint failed: UNIQUE constraint failed: accounts.username (2067)")
	assert.Same(t, auth.ErrUsernameTaken, mapWriteError(err))

	assert.True(t, auth.IsStorageError(mapWriteError(errors.New("disk I/O error"))))
	assert.Nil(t, mapWriteError(nil))
}

func TestMapReadError(t *testing.T) {
	assert.Same(t, auth.ErrAccountNotFound, mapReadError(fmt.Errorf("scan: %w", sql.ErrNoRows)))
	assert.True(t, auth.IsStorageError(mapReadError(errors.New("connection refused"))))
	assert.Nil(t, mapReadError(nil))
}
