package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	auth "github.com/wheretogonext/go-auth"
)

// AccountRepository implements auth.AccountStore using Bun.
type AccountRepository struct {
	db  *bun.DB
	now func() time.Time
}

var _ auth.AccountStore = (*AccountRepository)(nil)

// NewAccountRepository creates a new repository.
func NewAccountRepository(db *bun.DB) *AccountRepository {
	return &AccountRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// FindByID implements auth.AccountStore.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail implements auth.AccountStore. The email must already be normalized.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	if email == "" {
		return nil, auth.ErrAccountNotFound
	}
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername implements auth.AccountStore.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	if username == "" {
		return nil, auth.ErrAccountNotFound
	}
	return r.findOne(ctx, "username = ?", username)
}

// FindByExternalID implements auth.AccountStore.
func (r *AccountRepository) FindByExternalID(ctx context.Context, externalID string) (*auth.Account, error) {
	if externalID == "" {
		return nil, auth.ErrAccountNotFound
	}
	return r.findOne(ctx, "google_id = ?", externalID)
}

// FindByEmailOrUsername implements auth.AccountStore. An email match wins
// over a username match.
func (r *AccountRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*auth.Account, error) {
	if username == "" {
		return r.FindByEmail(ctx, email)
	}

	account := new(auth.Account)
	err := r.db.NewSelect().
		Model(account).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("email = ?", email).WhereOr("username = ?", username)
		}).
		OrderExpr("CASE WHEN email = ? THEN 0 ELSE 1 END", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapReadError(err)
	}
	return account, nil
}

// Create implements auth.AccountStore.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	now := r.now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(account).Exec(ctx); err != nil {
		return nil, mapWriteError(err)
	}

	return account, nil
}

// Update implements auth.AccountStore.
func (r *AccountRepository) Update(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	account.UpdatedAt = r.now()

	res, err := r.db.NewUpdate().
		Model(account).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, mapWriteError(err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, auth.ErrAccountNotFound
	}

	return account, nil
}

// Ping checks the database is reachable
func (r *AccountRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return auth.NewStorageError(err, "Database unavailable.")
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any) (*auth.Account, error) {
	account := new(auth.Account)
	err := r.db.NewSelect().
		Model(account).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapReadError(err)
	}
	return account, nil
}
