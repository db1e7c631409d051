package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not signed in or the token is invalid.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotSupported indicates an operation the account variant does not implement.
var ErrNotSupported = errors.New("operation not supported")

// ErrRemote indicates that a remote service call failed (network, timeout, HTTP status).
var ErrRemote = errors.New("remote service error")

// ErrMalformedResponse indicates that a remote service answered with an unexpected shape.
var ErrMalformedResponse = errors.New("malformed remote response")

// AppError carries an HTTP-ish status code next to the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewRemoteError wraps a transport level failure of the named service.
func NewRemoteError(service string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemote, service, err)
}

// NewMalformedResponseError reports a remote answer that lacks the expected shape.
func NewMalformedResponseError(service, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, service, detail)
}
