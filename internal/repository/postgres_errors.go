package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// pgInvalidTextRepresentation is raised when a malformed literal, such as a non-UUID id,
// is compared against a typed column.
const pgInvalidTextRepresentation = "22P02"

// notFoundOnMalformedID reports a malformed id as a miss: no row can carry it.
func notFoundOnMalformedID(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgInvalidTextRepresentation {
		return sql.ErrNoRows
	}
	return err
}
