package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// Admin Sessions
// =============================================================================

// Session is a server-side record of a logged-in admin. The token is an
// opaque random value handed to the client; there is nothing to decode in it.
type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session with a 32-byte random token valid for ttl.
func NewSession(ttl time.Duration) (*Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Session{
		Token:     hex.EncodeToString(buf),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
