// Package users declares the repository contract for account records.
package users

import (
	"context"

	"github.com/samuelireke/hoaxify/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create inserts a new user. Returns common.ErrorConflict when the
	// email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByID returns the user with the given id regardless of status.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindActiveByID returns the user only when the account is active.
	FindActiveByID(ctx context.Context, id string) (*models.User, error)

	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByActivationToken(ctx context.Context, token string) (*models.User, error)
	FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error)

	// ListActive returns one page of active users, excluding excludeID when
	// non-empty, together with the total count of matching rows.
	ListActive(ctx context.Context, excludeID string, limit, offset int) ([]*models.User, int64, error)

	// Update persists every mutable field of the user.
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user, reporting the count removed (0 or 1).
	// Session tokens go with it via ON DELETE CASCADE, but callers still
	// revoke explicitly so non-SQL stores behave the same.
	Delete(ctx context.Context, id string) (int64, error)
}
