package repository

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/wheretogonext/go-auth/repository/migrations"
)

// IsPostgresDSN reports whether dsn points at a PostgreSQL server
func IsPostgresDSN(dsn string) bool {
	dsn = strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to PostgreSQL for postgres:// URLs and to SQLite otherwise.
// The connection is verified before returning.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	var db *bun.DB

	if IsPostgresDSN(dsn) {
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open postgres")
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open sqlite")
		}
		// one writer at a time, uniqueness is still decided by the indexes
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "database unreachable")
	}

	return db, nil
}

var migrateMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema for the database dialect
func Migrate(ctx context.Context, db *bun.DB) error {
	var (
		fsys         fs.FS
		dir          string
		gooseDialect string
	)

	switch db.Dialect().Name() {
	case dialect.PG:
		fsys, dir, gooseDialect = migrations.Postgres, "postgres", "postgres"
	case dialect.SQLite:
		fsys, dir, gooseDialect = migrations.SQLite, "sqlite", "sqlite3"
	default:
		return goerrors.New("unsupported database dialect: "+db.Dialect().Name().String(), goerrors.CategoryInternal)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to set migration dialect")
	}

	if err := gooseUpContext(ctx, db.DB, dir); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to run migrations")
	}

	return nil
}
