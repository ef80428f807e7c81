package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors for constraint failures reported by SQLite.
var (
	// ErrConflict is returned when a UNIQUE or PRIMARY KEY constraint fails.
	ErrConflict = errors.New("unique constraint violated")

	// ErrForeignKey is returned when a referenced row does not exist.
	ErrForeignKey = errors.New("foreign key constraint violated")

	// ErrCheck is returned when a CHECK or NOT NULL constraint fails.
	ErrCheck = errors.New("check constraint violated")
)

// ConstraintError wraps a SQLite constraint failure.
type ConstraintError struct {
	Kind error
	Err  sqlite3.Error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// wrapError classifies constraint failures and passes other errors through
// unchanged.
func wrapError(err error) error {
	var serr sqlite3.Error
	if !errors.As(err, &serr) || serr.Code != sqlite3.ErrConstraint {
		return err
	}
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return &ConstraintError{Kind: ErrConflict, Err: serr}
	case sqlite3.ErrConstraintForeignKey:
		return &ConstraintError{Kind: ErrForeignKey, Err: serr}
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return &ConstraintError{Kind: ErrCheck, Err: serr}
	default:
		return err
	}
}
