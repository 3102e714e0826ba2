package models

import "time"

// RefreshToken is an opaque, server-stored token that can be exchanged
// once for a new access/refresh pair.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at t.
func (r *RefreshToken) Expired(t time.Time) bool { return !t.Before(r.Expires) }
