// Package common defines shared constants and sentinel errors used across
// client and server layers of memodo. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Store-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrPersistence    = errors.New("persistence failed")
	ErrNoOp           = errors.New("no fields to update")
	ErrPartialReorder = errors.New("reorder references unknown ids")

	// Validation errors. Every specific validation error wraps ErrValidation.
	ErrValidation        = errors.New("validation failed")
	ErrEmptyContent      = fmt.Errorf("%w: content must not be empty", ErrValidation)
	ErrPasswordTooShort  = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinLockPasswordLength)
	ErrPasswordMismatch  = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", ErrValidation)
	ErrAlreadyLocked     = fmt.Errorf("%w: note is already locked", ErrValidation)
	ErrNotLocked         = fmt.Errorf("%w: note is not locked", ErrValidation)

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrAlreadyExists  = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
