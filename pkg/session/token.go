package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a session token. 32 bytes (256 bits) makes
// collisions negligible without any uniqueness bookkeeping.
const tokenBytes = 32

// GenerateToken returns a hex-encoded cryptographically secure random
// session token. It panics only if the system entropy source is unavailable,
// which is fatal by contract.
func GenerateToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("session: entropy source unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
