package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsehq/pulse/pkg/auth"
)

func TestUserContext(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the user", func(t *testing.T) {
		t.Parallel()

		user := &auth.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
		ctx := auth.SetUserToContext(t.Context(), user)

		got := auth.GetUserFromContext(ctx)
		require.NotNil(t, got)
		assert.Equal(t, user, got)
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, auth.GetUserFromContext(t.Context()))
	})
}

func TestSessionTokenContext(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the token", func(t *testing.T) {
		t.Parallel()

		ctx := auth.SetSessionTokenToContext(t.Context(), "abc123")
		assert.Equal(t, "abc123", auth.GetSessionTokenFromContext(ctx))
	})

	t.Run("returns empty string when absent", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, auth.GetSessionTokenFromContext(t.Context()))
	})
}
