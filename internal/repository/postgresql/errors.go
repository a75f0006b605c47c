package postgresql

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isUUID reports whether id can be compared against a UUID column. A malformed id matches
// no row.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
