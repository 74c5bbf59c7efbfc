package repository

import (
	"database/sql"
	"errors"
)

// Sentinel errors surfaced by repositories so services can map them onto the
// API error taxonomy without inspecting driver details.
var (
	// ErrDuplicateDate reports a second holiday on an already-taken date.
	ErrDuplicateDate = errors.New("holiday date already taken")
	// ErrCapacityExceeded reports a conditional booking insert that found
	// the occurrence already full.
	ErrCapacityExceeded = errors.New("occurrence at capacity")
)

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
