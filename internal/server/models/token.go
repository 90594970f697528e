package models

import "time"

// Token is a server-side session record for an opaque bearer token.
// Value doubles as the primary key and the credential itself.
// LastUsedAt drives the sliding expiration window; CreatedAt is informational.
type Token struct {
	Value      string
	UserID     string
	LastUsedAt time.Time
	CreatedAt  time.Time
}
