package session

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session binds an opaque bearer token to a user identity and an expiry.
// Records are immutable after creation: tokens are never renewed or extended
// in place, only deleted by logout, bulk revocation, or the expiry sweep.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	Token     string        `bson:"token" json:"token"`
	UserID    string        `bson:"user_id" json:"user_id"`
	ExpiresAt time.Time     `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UserAgent string        `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IPAddress string        `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
}

// NewSession creates a session record for the given user with the given TTL.
// UserAgent and IPAddress are optional diagnostic metadata, never used for
// validation.
func NewSession(token, userID, userAgent, ipAddress string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
}

// IsExpired reports whether the session is past its expiry.
// A session is valid only while ExpiresAt > now; a record exactly at the
// boundary counts as expired.
func (s *Session) IsExpired() bool {
	return s != nil && !s.ExpiresAt.After(time.Now())
}
