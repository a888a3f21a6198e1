package domain

import "time"

// RefreshToken is a persisted, renewable session grant.
type RefreshToken struct {
	ID        string
	VetID     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token can no longer mint access tokens at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Identity is the authenticated caller decoded from an access token.
type Identity struct {
	VetID string
	Email string
}
