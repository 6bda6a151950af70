package models

import "errors"

// Sentinel errors shared by services and handlers. Handlers map these to
// HTTP status codes with errors.Is; services wrap them with context.
var (
	// ErrNotFound: the requested group, place, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized: missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden: the authenticated user may not perform the operation,
	// e.g. not a member of the group or not its host.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict: the operation collides with current state, e.g. the
	// group is full or the email is already registered.
	ErrConflict = errors.New("conflict")

	// ErrValidation: malformed input that cannot be defaulted away.
	ErrValidation = errors.New("validation error")
)
