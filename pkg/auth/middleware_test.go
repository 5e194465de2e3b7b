package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsehq/pulse/pkg/auth"
)

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	okHandler := func(called *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
			w.WriteHeader(http.StatusOK)
		})
	}

	seedUser := func(t *testing.T, store *memUserStore) *auth.User {
		t.Helper()
		user := &auth.User{
			ID:        uuid.New(),
			Name:      "Ada",
			Email:     "ada@example.com",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, store.CreateUser(t.Context(), user, []byte("hash")))
		return user
	}

	t.Run("missing authorization header", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "No session token provided, authorization denied", decodeMessage(t, rec))
		assert.False(t, called)
		// rejected before any store access
		assert.Zero(t, sessions.callCount())
		assert.Zero(t, store.callCount())
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		for _, header := range []string{"bearer abc", "Token abc", "Bearerabc"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", header)
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}
		assert.False(t, called)
		assert.Zero(t, sessions.callCount())
	})

	t.Run("readiness failure rejects before session lookup", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		var called bool
		handler := auth.Middleware(sessions, store,
			auth.WithReadiness(func(ctx context.Context) error {
				return errors.New("no reachable servers")
			}),
		)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Database not available, please try again later", decodeMessage(t, rec))
		assert.False(t, called)
		assert.Zero(t, sessions.callCount())
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer never-issued")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired session", decodeMessage(t, rec))
		assert.False(t, called)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		user := seedUser(t, store)
		sessions.add("expired-token", user.ID.String(), time.Now().Add(-time.Minute))

		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid or expired session", decodeMessage(t, rec))
		assert.False(t, called)
	})

	t.Run("session store failure maps to service unavailable", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		sessions.validateErr = errors.New("connection reset")
		store := newMemUserStore()
		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Database not available, please try again later", decodeMessage(t, rec))
		assert.False(t, called)
	})

	t.Run("orphaned session is deleted and rejected", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		user := seedUser(t, store)
		sessions.add("orphan-token", user.ID.String(), time.Now().Add(time.Hour))
		store.remove(user.ID)

		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer orphan-token")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not found", decodeMessage(t, rec))
		assert.False(t, called)
		assert.Contains(t, sessions.deletedTokens(), "orphan-token")
	})

	t.Run("session with unparseable user reference is treated as orphaned", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		sessions.add("bad-ref-token", "not-a-uuid", time.Now().Add(time.Hour))

		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad-ref-token")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not found", decodeMessage(t, rec))
		assert.False(t, called)
		assert.Contains(t, sessions.deletedTokens(), "bad-ref-token")
	})

	t.Run("user store failure maps to service unavailable", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		user := seedUser(t, store)
		sessions.add("valid-token", user.ID.String(), time.Now().Add(time.Hour))
		store.fail(errors.New("connection reset"))

		var called bool
		handler := auth.Middleware(sessions, store)(okHandler(&called))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.False(t, called)
		assert.NotContains(t, sessions.deletedTokens(), "valid-token")
	})

	t.Run("valid session attaches user and token to context", func(t *testing.T) {
		t.Parallel()

		sessions := newFakeSessionManager()
		store := newMemUserStore()
		user := seedUser(t, store)
		sessions.add("valid-token", user.ID.String(), time.Now().Add(time.Hour))

		readinessCalls := 0
		var gotUser *auth.User
		var gotToken string
		handler := auth.Middleware(sessions, store,
			auth.WithReadiness(func(ctx context.Context) error {
				readinessCalls++
				return nil
			}),
		)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser = auth.GetUserFromContext(r.Context())
			gotToken = auth.GetSessionTokenFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotUser)
		assert.Equal(t, user.ID, gotUser.ID)
		assert.Equal(t, user.Email, gotUser.Email)
		assert.Equal(t, "valid-token", gotToken)
		assert.Equal(t, 1, readinessCalls)
	})
}
