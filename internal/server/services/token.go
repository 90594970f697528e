// Package services contains server-side business logic. This file implements
// TokenService, which owns the session token lifecycle: issuing opaque bearer
// tokens, validating them against a sliding expiration window, revoking them,
// and sweeping out stale records.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/server/config"
	"github.com/samuelireke/hoaxify/internal/server/models"
	"github.com/samuelireke/hoaxify/internal/server/repositories/tokens"
)

// TokenService issues and validates opaque session tokens. A token is valid
// while now - last_used_at < window; every successful verification restarts
// the window. The service never caches records across calls; the injected
// repository is the single source of truth.
type TokenService struct {
	tokens tokens.Repository
	window time.Duration
	length int
}

// NewTokenService constructs a TokenService over the given token repository.
func NewTokenService(repo tokens.Repository, cfg *config.Config) *TokenService {
	return &TokenService{
		tokens: repo,
		window: cfg.TokenValidityWindow,
		length: cfg.TokenLength,
	}
}

// Issue generates a fresh opaque token for userID, stores it with
// last_used_at = created_at = now, and returns its value. Generation is
// cryptographically random with negligible collision probability; there is
// no retry loop, the repository's conflict check is the final guard.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	value, err := common.MakeRandString(s.length)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	now := time.Now()
	token := &models.Token{
		Value:      value,
		UserID:     userID,
		LastUsedAt: now,
		CreatedAt:  now,
	}
	if err := s.tokens.Insert(ctx, token); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}
	return value, nil
}

// Verify resolves a token value to its owner. Absent records and records
// past the sliding window both fail with common.ErrorUnauthorized — callers
// cannot tell whether a token ever existed. On success the record's
// last_used_at is refreshed to the same now the validity check used, so a
// token can never be judged valid under one timestamp and refreshed under
// another.
func (s *TokenService) Verify(ctx context.Context, value string) (string, error) {
	now := time.Now()
	threshold := now.Add(-s.window)

	token, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	if !token.LastUsedAt.After(threshold) {
		// Stale but not yet swept: behaves exactly as if already deleted.
		return "", common.ErrorUnauthorized
	}

	n, err := s.tokens.Touch(ctx, value, now)
	if err != nil {
		return "", err
	}
	if n == 0 {
		// Lost a race with a concurrent revoke or sweep.
		return "", common.ErrorUnauthorized
	}
	return token.UserID, nil
}

// Revoke deletes the token if present. Revoking an absent token succeeds:
// concurrent logout calls, or a logout racing the sweep, must not surface
// user-visible errors.
func (s *TokenService) Revoke(ctx context.Context, value string) error {
	if _, err := s.tokens.DeleteByValue(ctx, value); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// RevokeAll deletes every token belonging to userID. Zero matches is
// success. Called by account lifecycle flows (password reset completion,
// account deletion) to invalidate all live sessions at once.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	if _, err := s.tokens.DeleteByOwner(ctx, userID); err != nil {
		return fmt.Errorf("error revoking tokens: %w", err)
	}
	return nil
}

// Sweep removes every record whose last_used_at predates now - window and
// returns the count removed. The threshold is computed here, at invocation
// time, never ahead of it.
func (s *TokenService) Sweep(ctx context.Context, now time.Time) (int64, error) {
	threshold := now.Add(-s.window)
	removed, err := s.tokens.DeleteOlderThan(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("error sweeping tokens: %w", err)
	}
	return removed, nil
}
