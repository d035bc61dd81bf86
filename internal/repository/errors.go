package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate marks a unique-constraint violation. Services branch on this
// to return 409s instead of matching error message text.
var ErrDuplicate = errors.New("duplicate key")

const pgUniqueViolation = "23505"

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}
