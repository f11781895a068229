package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserExists is returned when username or email is already registered.
	ErrUserExists = errors.New("auth: username or email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrNotFound is returned for an unknown user id.
	ErrNotFound = errors.New("auth: user not found")
)

// ValidationError reports malformed signup or login input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "auth: " + e.Message
	}
	return fmt.Sprintf("auth: %s: %s", e.Field, e.Message)
}

// LockedError is returned while a username is locked after repeated failures.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("auth: account locked, retry after %s", e.RetryAfter.Round(time.Second))
}
