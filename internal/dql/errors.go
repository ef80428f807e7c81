package dql

import (
	"errors"
	"fmt"
)

// Sentinel errors for statement construction. Typed errors below match them
// through errors.Is.
var (
	// ErrSequenceViolation is returned when a builder method is called outside
	// the stage in which it is legal.
	ErrSequenceViolation = errors.New("query sequence violation")

	// ErrMissingPredicate is returned when an UPDATE or DELETE would be built
	// without a WHERE clause.
	ErrMissingPredicate = errors.New("update and delete statements require a where condition")

	// ErrMissingForeignKeys is returned when a many-to-many relation lacks
	// one of its foreign keys.
	ErrMissingForeignKeys = errors.New("many-to-many relation requires both foreign keys")

	// ErrUnknownRelation is returned when a field, group or order reference
	// names a relation that was never registered on the query.
	ErrUnknownRelation = errors.New("unknown relation")

	// ErrDuplicateAlias is returned when two tables of one query share an alias.
	ErrDuplicateAlias = errors.New("duplicate table alias")

	// ErrInvalidIdentifier is returned when a table, alias or column name is
	// not a plain SQL identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrMissingTable is returned when a statement is built without a table.
	ErrMissingTable = errors.New("query has no table")

	// ErrEmptyList is returned when IN or NOT IN receive no values.
	ErrEmptyList = errors.New("list predicate requires at least one value")
)

// SequenceError describes a call made in the wrong stage.
type SequenceError struct {
	Method    string
	Operation Operation
	Stage     Stage
	Reason    string
}

func (e *SequenceError) Error() string {
	msg := fmt.Sprintf("%s is not allowed for %s in stage %s", e.Method, e.Operation, e.Stage)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *SequenceError) Is(target error) bool {
	return target == ErrSequenceViolation
}

// IdentifierError carries the rejected identifier.
type IdentifierError struct {
	Kind  string
	Value string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid %s identifier %q", e.Kind, e.Value)
}

func (e *IdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// RelationError reports a relation lookup or registration failure.
type RelationError struct {
	Relation string
	Err      error
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("relation %s: %v", e.Relation, e.Err)
}

func (e *RelationError) Unwrap() error {
	return e.Err
}
