package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMisconfigured indicates a required secret or setting is absent
	ErrMisconfigured = errors.New("misconfigured")

	// ErrInternal indicates a storage or infrastructure failure
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// MisconfiguredError names the missing setting. The message is for logs only.
func MisconfiguredError(setting string) error {
	return fmt.Errorf("%s is not configured: %w", setting, ErrMisconfigured)
}

// InternalError wraps a lower-level failure so callers can classify it
// without seeing its detail.
func InternalError(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, ErrInternal)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrInternal, cause)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
