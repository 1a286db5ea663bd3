package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

// wrapErr turns a raw database/sql or lib/pq error into the domain taxonomy.
// No *pq.Error or sql.ErrNoRows ever crosses out of this package.
func wrapErr(reason string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domainerr.NotFound(reason)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return domainerr.Conflict(reason)
	}
	return domainerr.Internal(reason, err)
}
