// Package sweeper runs the periodic cleanup of stale session tokens.
package sweeper

import (
	"context"
	"time"

	"github.com/samuelireke/hoaxify/internal/logging"
)

// TokenSweeper is the slice of TokenService the sweeper needs.
type TokenSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

type Sweeper struct {
	tokens   TokenSweeper
	interval time.Duration
	logger   logging.Logger
}

func NewSweeper(tokens TokenSweeper, interval time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{
		tokens:   tokens,
		interval: interval,
		logger:   logger.With("module", "token_sweeper"),
	}
}

// Run sweeps on every tick until ctx is cancelled. A failed sweep is logged
// and the loop keeps going; the next tick retries with a fresh threshold.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting token sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping token sweeper...")
			return
		case now := <-ticker.C:
			removed, err := s.tokens.Sweep(ctx, now)
			if err != nil {
				s.logger.Error(ctx, "token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Info(ctx, "swept stale tokens", "removed", removed)
			}
		}
	}
}
