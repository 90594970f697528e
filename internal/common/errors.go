// Package common defines shared constants and sentinel errors used across
// the hoaxify server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Registration / account lifecycle errors.
	ErrorEmailInUse    = errors.New("email already in use")
	ErrorInvalidToken  = errors.New("invalid token")
	ErrorEmailDelivery = errors.New("email delivery failed")
)
