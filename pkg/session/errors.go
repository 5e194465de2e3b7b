package session

import "errors"

var (
	// ErrSessionNotFound is returned when a token does not resolve to a live,
	// unexpired session.
	ErrSessionNotFound = errors.New("session not found or expired")

	// ErrDuplicateToken is returned by a store when a session with the same
	// token already exists.
	ErrDuplicateToken = errors.New("session token already exists")

	// ErrInvalidUserID is returned when a session is created without an owner.
	ErrInvalidUserID = errors.New("session requires a user id")
)
