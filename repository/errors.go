package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	auth "github.com/wheretogonext/go-auth"
)

const pgUniqueViolation = "23505"

// mapReadError turns lookup failures into the auth error taxonomy
func mapReadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return auth.ErrAccountNotFound
	}
	return auth.NewStorageError(err, "Database error. Try again.")
}

// mapWriteError reports unique index violations as conflicts naming the
// offending field when the engine tells us which one it was.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	if column, ok := uniqueViolation(err); ok {
		switch {
		case strings.Contains(column, "google_id"):
			return auth.ErrExternalIDTaken
		case strings.Contains(column, "username"):
			return auth.ErrUsernameTaken
		case strings.Contains(column, "email"):
			return auth.ErrEmailTaken
		default:
			return auth.ErrAccountConflict
		}
	}

	return auth.NewStorageError(err, "Database error. Try again.")
}

// uniqueViolation returns the constraint or column description of a
// unique violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return strings.ToLower(pgErr.ConstraintName + " " + pgErr.Detail), true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
			sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
			return "", false
		}
		return strings.ToLower(sqliteErr.Error()), true
	}

	// other sqlite drivers only expose the message
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "unique constraint failed") {
		return message, true
	}

	return "", false
}
