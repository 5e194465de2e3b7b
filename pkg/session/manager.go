package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Config holds the environment-sourced session settings.
type Config struct {
	TimeoutDays int `env:"SESSION_TIMEOUT_DAYS" envDefault:"7"` // TimeoutDays is the default session lifetime in days.
}

// DefaultLifetimeDays is the session lifetime applied when neither the
// environment nor the per-call options override it.
const DefaultLifetimeDays = 7

// CreateOptions carries the inputs for creating a session.
type CreateOptions struct {
	UserID        string
	UserAgent     string
	IPAddress     string
	ExpiresInDays int // zero means the manager's configured default
}

// SessionData is the caller-facing result of a successful session creation.
type SessionData struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager creates, validates, deletes, and sweeps sessions. It encapsulates
// the expiry policy: expiry is enforced lazily at validation time and eagerly
// by CleanupExpiredSessions, which the background sweeper invokes.
type Manager struct {
	store       Store
	defaultDays int
	logger      *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDefaultLifetimeDays overrides the default session lifetime.
// Non-positive values are ignored.
func WithDefaultLifetimeDays(days int) ManagerOption {
	return func(m *Manager) {
		if days > 0 {
			m.defaultDays = days
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:       store,
		defaultDays: DefaultLifetimeDays,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession generates a fresh token, computes the expiry from the
// requested or default day count, and persists the record. Store errors
// propagate to the caller unchanged.
func (m *Manager) CreateSession(ctx context.Context, opts CreateOptions) (SessionData, error) {
	if opts.UserID == "" {
		return SessionData{}, ErrInvalidUserID
	}

	days := opts.ExpiresInDays
	if days <= 0 {
		days = m.defaultDays
	}

	now := time.Now().UTC()
	sess := &Session{
		Token:     GenerateToken(),
		UserID:    opts.UserID,
		ExpiresAt: now.AddDate(0, 0, days),
		CreatedAt: now,
		UserAgent: opts.UserAgent,
		IPAddress: opts.IPAddress,
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return SessionData{}, fmt.Errorf("failed to create session: %w", err)
	}

	return SessionData{
		Token:     sess.Token,
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// ValidateSession resolves a token to its stored session, applying the lazy
// expiry check. An empty token short-circuits to ErrSessionNotFound without
// touching the store. Validation never mutates state; there is no sliding
// expiration.
func (m *Manager) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.FindByToken(ctx, token, time.Now())
}

// DeleteSession removes a single session and reports whether a record
// existed. It is idempotent: deleting an already-deleted token returns false
// without error.
func (m *Manager) DeleteSession(ctx context.Context, token string) (bool, error) {
	return m.store.DeleteByToken(ctx, token)
}

// DeleteAllUserSessions removes every session owned by the user, serving
// "logout everywhere". Returns the number removed; zero is a success.
func (m *Manager) DeleteAllUserSessions(ctx context.Context, userID string) (int64, error) {
	return m.store.DeleteByUserID(ctx, userID)
}

// CleanupExpiredSessions removes every session whose expiry has passed.
// It is idempotent and safe to run concurrently with validation: a session
// swept a moment before validation is reported absent, a session validated a
// moment before the sweep still returns its result.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	count, err := m.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	if count > 0 {
		m.logger.InfoContext(ctx, "cleaned up expired sessions", slog.Int64("count", count))
	}
	return count, nil
}
