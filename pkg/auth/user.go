package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an account in the user directory. Sessions reference users by id
// and never own them.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDirectory resolves user identities. The authentication middleware uses
// it to turn a validated session into a user record.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// UserStore defines the storage operations required for password
// authentication and identity resolution.
type UserStore interface {
	UserDirectory
	CreateUser(ctx context.Context, user *User, passwordHash []byte) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetPasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error)
}
