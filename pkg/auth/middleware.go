package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulsehq/pulse/pkg/logger"
	"github.com/pulsehq/pulse/pkg/session"
)

// bearerPrefix is the exact scheme prefix required on the Authorization
// header.
const bearerPrefix = "Bearer "

// SessionManager is the slice of the session manager the middleware needs.
type SessionManager interface {
	ValidateSession(ctx context.Context, token string) (*session.Session, error)
	DeleteSession(ctx context.Context, token string) (bool, error)
}

// ReadinessCheck reports whether the persistence layer is reachable.
// A failing check rejects the request as "service unavailable" instead of
// conflating infrastructure failure with bad credentials.
type ReadinessCheck func(ctx context.Context) error

type middlewareConfig struct {
	readiness        ReadinessCheck
	readinessTimeout time.Duration
	logger           *slog.Logger
}

// MiddlewareOption configures the authentication middleware.
type MiddlewareOption func(*middlewareConfig)

// WithReadiness sets the persistence readiness probe checked before any
// session lookup.
func WithReadiness(check ReadinessCheck) MiddlewareOption {
	return func(c *middlewareConfig) {
		if check != nil {
			c.readiness = check
		}
	}
}

// WithReadinessTimeout bounds the readiness probe. Non-positive values are
// ignored.
func WithReadinessTimeout(d time.Duration) MiddlewareOption {
	return func(c *middlewareConfig) {
		if d > 0 {
			c.readinessTimeout = d
		}
	}
}

// WithMiddlewareLogger sets a custom logger for the middleware.
func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Middleware authenticates every request passing through it.
//
// The request moves through a single fail-fast pass: extract the bearer
// token, verify the persistence layer is reachable, resolve the token to a
// session, resolve the session to a user, then attach both to the request
// context. Each early exit maps to a distinct response signal. A session
// whose owner no longer exists is deleted as a side effect before the
// request is rejected.
func Middleware(sessions SessionManager, users UserDirectory, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		readinessTimeout: 2 * time.Second,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				rejectJSON(w, http.StatusUnauthorized, "No session token provided, authorization denied")
				return
			}
			token := authHeader[len(bearerPrefix):]

			if cfg.readiness != nil {
				pingCtx, cancel := context.WithTimeout(ctx, cfg.readinessTimeout)
				err := cfg.readiness(pingCtx)
				cancel()
				if err != nil {
					cfg.logger.WarnContext(ctx, "persistence layer unreachable, rejecting request",
						logger.Component("auth"),
						logger.Error(err),
					)
					rejectJSON(w, http.StatusServiceUnavailable, "Database not available, please try again later")
					return
				}
			}

			sess, err := sessions.ValidateSession(ctx, token)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					rejectJSON(w, http.StatusUnauthorized, "Invalid or expired session")
					return
				}
				cfg.logger.ErrorContext(ctx, "session validation failed",
					logger.Component("auth"),
					logger.Error(err),
				)
				rejectJSON(w, http.StatusServiceUnavailable, "Database not available, please try again later")
				return
			}

			user, err := resolveUser(ctx, users, sess.UserID)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					// The owner is gone; drop the orphaned session
					if _, delErr := sessions.DeleteSession(ctx, token); delErr != nil {
						cfg.logger.ErrorContext(ctx, "failed to delete orphaned session",
							logger.Component("auth"),
							logger.Error(delErr),
						)
					}
					rejectJSON(w, http.StatusUnauthorized, "User not found")
					return
				}
				cfg.logger.ErrorContext(ctx, "user resolution failed",
					logger.Component("auth"),
					logger.UserID(sess.UserID),
					logger.Error(err),
				)
				rejectJSON(w, http.StatusServiceUnavailable, "Database not available, please try again later")
				return
			}

			ctx = SetUserToContext(ctx, user)
			ctx = SetSessionTokenToContext(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveUser parses the session's user reference and looks it up in the
// directory. An unparseable reference behaves like a deleted user: the
// session is orphaned either way.
func resolveUser(ctx context.Context, users UserDirectory, userID string) (*User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return users.GetUserByID(ctx, id)
}

// rejectJSON writes a terminal rejection. Middleware errors are always
// converted to responses here, never propagated further.
func rejectJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
