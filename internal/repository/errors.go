// Package repository defines error types that are reused across multiple
// repositories. Every error leaving this package is one of the three
// sentinels below (possibly wrapped), so handlers can map failures to HTTP
// statuses with errors.Is and never need to inspect driver errors.
package repository

import (
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when the entity addressed by an operation does
// not exist. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a write is rejected because of its input:
// a constraint violation, a missing required column or a reference to a
// row that does not exist. Handlers should translate this into an HTTP 400
// response.
var ErrValidation = errors.New("validation failed")

// ErrStorage is returned for any other database failure (connection loss,
// failed commit, malformed query). Handlers should translate this into an
// HTTP 500 response.
var ErrStorage = errors.New("storage failure")

// MySQL server error numbers that indicate rejected input.
var mysqlInputErrors = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1264: true, // out of range value
	1364: true, // field has no default value
	1366: true, // incorrect value for column
	1451: true, // parent row referenced
	1452: true, // foreign key fails
	3819: true, // check constraint violated
}

// classify maps a driver error onto the package taxonomy. Errors that are
// already classified pass through unchanged.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStorage) {
		return err
	}
	if isConstraintViolation(err) {
		return errors.Wrapf(ErrValidation, "%s: %v", op, err)
	}
	return errors.Wrapf(ErrStorage, "%s: %v", op, err)
}

func isConstraintViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return mysqlInputErrors[me.Number]
	}
	return false
}
