package service

import (
	"errors"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/repository"
	"github.com/taskdesk/taskdesk/internal/store"
)

// mapError converts repository and store failures into domain errors.
// notFound builds the error for a missing row; conflict the error for a
// uniqueness violation. Either may be nil.
func mapError(err error, notFound, conflict func() *domain.DomainError) error {
	if err == nil {
		return nil
	}

	var de *domain.DomainError
	switch {
	case errors.As(err, &de):
		return de
	case notFound != nil && (errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrNoEffect)):
		return notFound()
	case conflict != nil && errors.Is(err, store.ErrConflict):
		return conflict()
	case errors.Is(err, store.ErrForeignKey):
		return domain.NewInvalidReferenceError(err)
	case errors.Is(err, store.ErrCheck), errors.Is(err, repository.ErrUnknownColumn):
		return domain.NewValidationError([]string{err.Error()})
	default:
		return domain.NewInternalError(err)
	}
}

func taskNotFound(id int64) func() *domain.DomainError {
	return func() *domain.DomainError { return domain.NewTaskNotFoundError(id) }
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
