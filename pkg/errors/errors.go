package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnavailable    = errors.New("dependency unavailable")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

// Conflict reports a write refused because of the current state of the data.
func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InvalidInput(msg string, err error) *AppError {
	if err == nil {
		return &AppError{Code: "INVALID_INPUT", Message: msg, Err: ErrInvalidInput}
	}
	return &AppError{Code: "INVALID_INPUT", Message: msg, Err: fmt.Errorf("%w: %w", ErrInvalidInput, err)}
}

func InternalServer(msg string, err error) *AppError {
	if err == nil {
		return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: ErrInternalServer}
	}
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: fmt.Errorf("%w: %w", ErrInternalServer, err)}
}

func Unavailable(msg string, err error) *AppError {
	return &AppError{Code: "UNAVAILABLE", Message: msg, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
}
