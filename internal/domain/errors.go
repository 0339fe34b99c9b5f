package domain

import "errors"

var (
	// ErrValidation indicates a required input is missing or empty.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a unique field (email) is already taken.
	ErrConflict = errors.New("already exists")
	// ErrAuth indicates missing or incorrect credentials, or a missing token.
	ErrAuth = errors.New("unauthorized")
	// ErrInvalidToken indicates a malformed, foreign-signed or expired token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound indicates the record is absent or not owned by the caller.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
)
