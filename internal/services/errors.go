package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses in the handler layer.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to session")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrSessionCompleted    = errors.New("session already completed")
	ErrEntryNotFound       = errors.New("session entry not found")

	ErrQuestionGeneration = errors.New("failed to generate questions")
	ErrFeedbackGeneration = errors.New("failed to generate feedback")

	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
)

// PermissionError carries the resource and action of an ownership violation.
type PermissionError struct {
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s (%s)", e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrSessionAccessDenied
}

func NewPermissionError(resource, action, reason string) *PermissionError {
	return &PermissionError{Resource: resource, Action: action, Reason: reason}
}
