package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation detects a constraint race on first-insert (Postgres 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
