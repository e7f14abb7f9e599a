// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Authentication errors.
	ErrAuthFailure = errors.New("invalid ID or password")

	// Backend errors.
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrConnectionClosed   = errors.New("connection closed")
	ErrInvalidRecord      = errors.New("invalid record")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Unavailable wraps err as ErrBackendUnavailable with a message fit for the dashboard.
func Unavailable(userMessage string, err error) error {
	if err == nil {
		err = ErrBackendUnavailable
	} else {
		err = fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return NewUserError(userMessage, err)
}

// UserMessage returns the message that should be rendered for err.
// Errors without a UserError in their chain get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	switch {
	case errors.Is(err, ErrAuthFailure):
		return ErrAuthFailure.Error()
	case errors.Is(err, ErrBackendUnavailable):
		return "The data backend is unavailable. Please try again."
	case errors.Is(err, ErrInvalidRecord):
		return "Some rows could not be read. Check the highlighted values."
	}
	return "Something went wrong. Please try again."
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
