// Package apperror defines the error categories the HTTP layer knows how to
// turn into responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType int

const (
	// UnexpectedError covers infrastructure failures. Its message is generic
	// and the wrapped error is only ever logged.
	UnexpectedError ErrorType = iota
	ValidationError
	NotFoundError
	AuthenticationError
	// ConflictError is a duplicate resource. The API reports it as 400.
	ConflictError
	UnavailableError
)

// AppError carries a user-facing message, the HTTP category and an optional
// underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Fields are merged into the JSON error body, e.g. missingFields.
	Fields map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, ConflictError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthenticationError:
		return http.StatusUnauthorized
	case UnavailableError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithField attaches an extra key to the response body.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return New(ValidationError, message, nil)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

func NewAuthenticationError(message string, err error) *AppError {
	return New(AuthenticationError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

func NewUnexpectedError(message string, err error) *AppError {
	return New(UnexpectedError, message, err)
}

func NewUnavailableError(message string) *AppError {
	return New(UnavailableError, message, nil)
}

// From converts any error into an *AppError. Errors that are not already
// AppErrors become UnexpectedError with the given fallback message.
func From(err error, fallback string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewUnexpectedError(fallback, err)
}
