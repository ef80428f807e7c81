package domain

import "fmt"

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound       ErrorCode = "TASK_NOT_FOUND"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeTagNotFound        ErrorCode = "TAG_NOT_FOUND"
	ErrCodeReplyNotFound      ErrorCode = "REPLY_NOT_FOUND"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeInvalidReference   ErrorCode = "INVALID_REFERENCE"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.Err
}

func notFound(code ErrorCode, resource string, id int64) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf("%s %d not found", resource, id),
		Context: map[string]interface{}{"id": id},
	}
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError(id int64) *DomainError {
	return notFound(ErrCodeTaskNotFound, "Task", id)
}

// NewUserNotFoundError creates a user not found error.
func NewUserNotFoundError(id int64) *DomainError {
	return notFound(ErrCodeUserNotFound, "User", id)
}

// NewTagNotFoundError creates a tag not found error.
func NewTagNotFoundError(id int64) *DomainError {
	return notFound(ErrCodeTagNotFound, "Tag", id)
}

// NewReplyNotFoundError creates a reply not found error.
func NewReplyNotFoundError(id int64) *DomainError {
	return notFound(ErrCodeReplyNotFound, "Reply", id)
}

// NewConflictError reports a uniqueness violation on field.
func NewConflictError(resource, field string, value interface{}) *DomainError {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("%s with %s %v already exists", resource, field, value),
		Context: map[string]interface{}{"field": field, "value": value},
	}
}

// NewInvalidReferenceError reports a reference to a row that does not exist.
func NewInvalidReferenceError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidReference,
		Message: "Referenced record does not exist",
		Context: map[string]interface{}{},
		Err:     err,
	}
}

// NewInvalidCredentialsError is returned when a login fails. It does not say
// whether the email or the password was wrong.
func NewInvalidCredentialsError() *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
		Context: map[string]interface{}{},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewRateLimitedError is returned when a client sends requests too fast.
func NewRateLimitedError() *DomainError {
	return &DomainError{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests, retry later",
		Context: map[string]interface{}{},
	}
}

// NewInternalError creates an internal error.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
		Err:     err,
	}
}
