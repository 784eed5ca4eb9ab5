package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyConnectionString = errors.New("pg.errors.empty_connection_string")
	ErrInvalidConfig         = errors.New("pg.errors.invalid_config")
	ErrConnectionFailed      = errors.New("pg.errors.connection_failed")
	ErrHealthcheckFailed     = errors.New("pg.errors.healthcheck_failed")
	ErrMigrationFailed       = errors.New("pg.errors.migration_failed")
)

// IsNotFound reports whether err is pgx.ErrNoRows, for consistent "not
// found" handling across stores.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey reports a unique constraint violation (SQLSTATE 23505),
// e.g. concurrent inserts of the same user's subscription row.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
