package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/samuelireke/hoaxify/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeTokenSweeper) Sweep(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return 1, f.err
}

func (f *fakeTokenSweeper) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRun_SweepsOnTicks(t *testing.T) {
	fake := &fakeTokenSweeper{}
	s := NewSweeper(fake, 10*time.Millisecond, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fake.callCount() >= 2 },
		time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancellation")
	}
}

func TestRun_KeepsGoingAfterSweepError(t *testing.T) {
	fake := &fakeTokenSweeper{err: errors.New("db down")}
	s := NewSweeper(fake, 10*time.Millisecond, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return fake.callCount() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestRun_PassesTickTime(t *testing.T) {
	fake := &fakeTokenSweeper{}
	s := NewSweeper(fake, 10*time.Millisecond, newTestLogger())

	start := time.Now()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return fake.callCount() >= 1 },
		time.Second, 5*time.Millisecond)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.False(t, fake.calls[0].Before(start), "sweep timestamp must come from the tick, not startup")
}
