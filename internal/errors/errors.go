// Package errors provides domain errors with machine-readable codes for the
// recommendation pipeline and its HTTP surface.
//
// Usage:
//
//	// In services - return typed errors
//	if len(results) == 0 {
//	    return nil, errors.NoMatchFound()
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrNoMatchFound) {
//	    fmt.Println(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeEmptyQuery          Code = "EMPTY_QUERY"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	CodeNoMatchFound        Code = "NO_MATCH_FOUND"
	CodeValidation          Code = "VALIDATION"
	CodeNotFound            Code = "NOT_FOUND"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeInternal            Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeEmptyQuery, CodeValidation:
		return http.StatusBadRequest
	case CodeNoMatchFound, CodeNotFound:
		return http.StatusNotFound
	case CodeProviderUnavailable:
		return http.StatusBadGateway
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrEmptyQuery          = &Error{Code: CodeEmptyQuery, Message: "empty query"}
	ErrProviderUnavailable = &Error{Code: CodeProviderUnavailable, Message: "provider unavailable"}
	ErrNoMatchFound        = &Error{Code: CodeNoMatchFound, Message: "no match found"}
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
)

// User-facing messages for the fatal query outcomes.
const (
	MessageEmptyQuery          = "Please enter a movie name."
	MessageNoMatchFound        = "No movies found. Please refine your input."
	MessageProviderUnavailable = "Failed to fetch data from the movie catalog."
)

// EmptyQuery creates an empty query error with the user-facing message.
func EmptyQuery() *Error {
	return &Error{Code: CodeEmptyQuery, Message: MessageEmptyQuery}
}

// NoMatchFound creates a no match error with the user-facing message.
func NoMatchFound() *Error {
	return &Error{Code: CodeNoMatchFound, Message: MessageNoMatchFound}
}

// ProviderUnavailable wraps a failed catalog call with the user-facing message.
func ProviderUnavailable(cause error) *Error {
	return &Error{Code: CodeProviderUnavailable, Message: MessageProviderUnavailable, cause: cause}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// UserMessage returns the message to show an end user for err.
// Domain errors carry their own message; anything else is reported generically.
func UserMessage(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Something went wrong. Please try again."
}
