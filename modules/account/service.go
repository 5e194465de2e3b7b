package account

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pulsehq/pulse/pkg/auth"
	"github.com/pulsehq/pulse/pkg/clientip"
	"github.com/pulsehq/pulse/pkg/logger"
	"github.com/pulsehq/pulse/pkg/session"
)

// Service exposes the account HTTP API: registration, login, current-user
// lookup, logout, logout-everywhere, and public profile reads.
type Service struct {
	passwords        *auth.PasswordService
	sessions         *session.Manager
	users            auth.UserDirectory
	readiness        auth.ReadinessCheck
	readinessTimeout time.Duration
	logger           *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithReadiness sets the persistence readiness probe. Handlers that touch
// storage check it up front and answer "service unavailable" when it fails.
func WithReadiness(check auth.ReadinessCheck) ServiceOption {
	return func(s *Service) {
		if check != nil {
			s.readiness = check
		}
	}
}

// WithReadinessTimeout bounds the readiness probe. Non-positive values are
// ignored.
func WithReadinessTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.readinessTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates the account service.
func NewService(passwords *auth.PasswordService, sessions *session.Manager, users auth.UserDirectory, opts ...ServiceOption) *Service {
	s := &Service{
		passwords:        passwords,
		sessions:         sessions,
		users:            users,
		readinessTimeout: 2 * time.Second,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ready reports whether the persistence layer is reachable. A nil probe is
// treated as always ready.
func (s *Service) ready(ctx context.Context) bool {
	if s.readiness == nil {
		return true
	}
	pingCtx, cancel := context.WithTimeout(ctx, s.readinessTimeout)
	defer cancel()
	if err := s.readiness(pingCtx); err != nil {
		s.logger.WarnContext(ctx, "persistence layer unreachable",
			logger.Component("account"),
			logger.Error(err),
		)
		return false
	}
	return true
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !s.ready(ctx) {
		writeMessage(w, http.StatusServiceUnavailable, "Database not available. Please try again later.")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Please provide name, email, and password")
		return
	}

	user, err := s.passwords.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.logger.ErrorContext(ctx, "registration failed",
			logger.Component("account"),
			logger.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.issueSession(w, r, user, http.StatusCreated, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !s.ready(ctx) {
		writeMessage(w, http.StatusServiceUnavailable, "Database not available. Please try again later.")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	user, err := s.passwords.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		s.logger.ErrorContext(ctx, "login failed",
			logger.Component("account"),
			logger.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.issueSession(w, r, user, http.StatusOK, "Login successful")
}

// issueSession creates a fresh session for the user and writes the auth
// response. Registration and login share this tail.
func (s *Service) issueSession(w http.ResponseWriter, r *http.Request, user *auth.User, status int, message string) {
	ctx := r.Context()

	data, err := s.sessions.CreateSession(ctx, session.CreateOptions{
		UserID:    user.ID.String(),
		UserAgent: r.UserAgent(),
		IPAddress: clientip.GetIP(r),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create session",
			logger.Component("account"),
			logger.UserID(user.ID.String()),
			logger.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, status, authResponse{
		Message:      message,
		SessionToken: data.Token,
		ExpiresAt:    data.ExpiresAt,
		User:         newUserPayload(user, false),
	})
}

func (s *Service) me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: newUserPayload(user, true)})
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := auth.GetSessionTokenFromContext(ctx); token != "" {
		if _, err := s.sessions.DeleteSession(ctx, token); err != nil {
			s.logger.ErrorContext(ctx, "logout failed",
				logger.Component("account"),
				logger.Error(err),
			)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}
	}

	writeMessage(w, http.StatusOK, "Logout successful")
}

func (s *Service) logoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := auth.GetUserFromContext(ctx)
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return
	}

	count, err := s.sessions.DeleteAllUserSessions(ctx, user.ID.String())
	if err != nil {
		s.logger.ErrorContext(ctx, "logout-all failed",
			logger.Component("account"),
			logger.UserID(user.ID.String()),
			logger.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, logoutAllResponse{
		Message:         "Logged out from all devices successfully",
		SessionsCleared: count,
	})
}

func (s *Service) userProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !s.ready(ctx) {
		writeMessage(w, http.StatusServiceUnavailable, "Database not available")
		return
	}

	// An unparseable id cannot match any stored user
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.ErrorContext(ctx, "profile lookup failed",
			logger.Component("account"),
			logger.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: newUserPayload(user, true)})
}
