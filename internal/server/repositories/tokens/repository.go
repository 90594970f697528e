// Package tokens declares the repository contract for session token records.
// The repository is pure persistence: expiration policy lives in the token
// service, never here.
package tokens

import (
	"context"
	"time"

	"github.com/samuelireke/hoaxify/internal/server/models"
)

// Repository defines atomic per-record operations on session tokens.
type Repository interface {
	// Insert stores a new token record. Returns common.ErrorConflict if a
	// record with the same value already exists.
	Insert(ctx context.Context, token *models.Token) error

	// FindByValue looks up a token record by its opaque value.
	// Returns common.ErrorNotFound when the record is absent.
	FindByValue(ctx context.Context, value string) (*models.Token, error)

	// Touch sets last_used_at to now for the record with that value and
	// reports how many records were updated (0 or 1). Touching an absent
	// value is not an error at this layer; the caller decides.
	Touch(ctx context.Context, value string, now time.Time) (int64, error)

	// DeleteByValue removes the record with that value, reporting the
	// count removed (0 or 1).
	DeleteByValue(ctx context.Context, value string) (int64, error)

	// DeleteByOwner removes every record belonging to userID.
	DeleteByOwner(ctx context.Context, userID string) (int64, error)

	// DeleteOlderThan removes every record whose last_used_at predates
	// threshold and reports the count removed.
	DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error)
}
