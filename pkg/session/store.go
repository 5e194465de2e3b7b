package session

import (
	"context"
	"time"
)

// Store is the persistence contract for session records.
//
// Implementations must enforce token uniqueness at creation and provide
// per-operation atomicity; no cross-record transactional consistency is
// assumed by the manager. Native TTL expiry (Mongo TTL index, Redis key TTL)
// is defense-in-depth only: the lazy check in FindByToken and the periodic
// DeleteExpired sweep are authoritative.
type Store interface {
	// Create persists a new session. Returns ErrDuplicateToken if a record
	// with the same token already exists.
	Create(ctx context.Context, sess *Session) error

	// FindByToken returns the session for the token if it exists and has not
	// expired as of now. Returns ErrSessionNotFound otherwise.
	FindByToken(ctx context.Context, token string, now time.Time) (*Session, error)

	// DeleteByToken removes a single session and reports whether a record
	// existed. Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token string) (bool, error)

	// DeleteByUserID removes every session owned by the user and returns the
	// number removed; zero removals are not an error.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes every session with an expiry before now and
	// returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
