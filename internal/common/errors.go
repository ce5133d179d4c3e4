package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Workflow errors
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrValidation        = errors.New("validation failed")
	ErrVersionConflict   = errors.New("post was modified by another actor, reload and retry")

	// Storage errors
	ErrRepository = errors.New("repository error")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// InvalidTransitionError wraps ErrInvalidTransition with the offending
// (status, action) pair so callers can explain why the request failed.
func InvalidTransitionError(status, action string) error {
	return fmt.Errorf("%w: action %q not allowed from status %q", ErrInvalidTransition, action, status)
}

// ValidationError wraps ErrValidation with a human-readable reason
func ValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// RepositoryError wraps an underlying storage failure. The cause is kept
// for logs but never returned verbatim to API callers.
func RepositoryError(err error) error {
	return fmt.Errorf("%w: %v", ErrRepository, err)
}
