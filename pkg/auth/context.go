package auth

import "context"

type userContextKey struct{}

type sessionTokenContextKey struct{}

// SetUserToContext stores the authenticated user in context for downstream
// handlers.
func SetUserToContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext retrieves the authenticated user from context.
// Returns nil if no user was previously stored.
func GetUserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// SetSessionTokenToContext stores the raw bearer token, letting logout
// handlers revoke the exact session that authenticated the request.
func SetSessionTokenToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenContextKey{}, token)
}

// GetSessionTokenFromContext retrieves the session token from context.
// Returns an empty string if none was stored.
func GetSessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenContextKey{}).(string)
	return token
}
