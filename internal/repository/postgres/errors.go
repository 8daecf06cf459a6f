package postgres

import (
	"errors"

	"go-profile-directory/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRep      = "22P02"
)

// translate maps driver errors that clients can act on to AppErrors and
// wraps everything else as Internal.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Conflict(what + " already exists")
		case pgForeignKeyViolation:
			return apperror.NotFound(what + " references a missing record")
		case pgInvalidTextRep:
			return apperror.BadRequest("Invalid identifier")
		}
	}
	return apperror.Internal(err)
}
