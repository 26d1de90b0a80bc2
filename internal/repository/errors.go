package repository

import (
	"errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that miss. A miss is a normal outcome,
// not a store failure; callers check it with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrStoreBusy is returned when the single-writer store is locked past the
// busy timeout. The repository never retries silently; callers may.
var ErrStoreBusy = errors.New("store busy")

// ValidationError reports a uniqueness or required-field violation on write.
type ValidationError struct {
	Op     string
	Entity string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Entity, e.Reason)
}

// OpError wraps a store-level failure with the attempted operation and
// entity type.
type OpError struct {
	Op     string
	Entity string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// translate maps driver-level errors onto the repository taxonomy.
func translate(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &OpError{Op: op, Entity: entity, Err: fmt.Errorf("%w: %v", ErrStoreBusy, err)}
		case sqlite3.ErrConstraint:
			reason := "constraint violation"
			switch serr.ExtendedCode {
			case sqlite3.ErrConstraintUnique:
				reason = "duplicate value for unique field"
			case sqlite3.ErrConstraintNotNull:
				reason = "required field missing"
			}
			return &ValidationError{Op: op, Entity: entity, Reason: reason}
		}
	}

	// gorm re-wraps some driver errors as plain strings
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return &OpError{Op: op, Entity: entity, Err: fmt.Errorf("%w: %v", ErrStoreBusy, err)}
	}
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return &ValidationError{Op: op, Entity: entity, Reason: "duplicate value for unique field"}
	}

	return &OpError{Op: op, Entity: entity, Err: err}
}
