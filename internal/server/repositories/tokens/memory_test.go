package tokens

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedToken(t *testing.T, repo *MemoryRepository, value, userID string, lastUsed time.Time) {
	t.Helper()
	err := repo.Insert(context.Background(), &models.Token{
		Value: value, UserID: userID, LastUsedAt: lastUsed, CreatedAt: lastUsed,
	})
	require.NoError(t, err)
}

func TestMemory_InsertConflict(t *testing.T) {
	repo := NewMemoryRepository()
	seedToken(t, repo, "tok1", "u1", time.Now())

	err := repo.Insert(context.Background(), &models.Token{Value: "tok1", UserID: "u2"})
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestMemory_FindAndTouch(t *testing.T) {
	repo := NewMemoryRepository()
	old := time.Now().Add(-time.Hour)
	seedToken(t, repo, "tok1", "u1", old)

	now := time.Now()
	n, err := repo.Touch(context.Background(), "tok1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByValue(context.Background(), "tok1")
	require.NoError(t, err)
	assert.True(t, got.LastUsedAt.Equal(now))

	n, err = repo.Touch(context.Background(), "missing", now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestMemory_DeleteByOwnerLeavesOthers(t *testing.T) {
	repo := NewMemoryRepository()
	seedToken(t, repo, "tok1", "u1", time.Now())
	seedToken(t, repo, "tok2", "u1", time.Now())
	seedToken(t, repo, "tok3", "u2", time.Now())

	n, err := repo.DeleteByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindByValue(context.Background(), "tok3")
	assert.NoError(t, err)
}

func TestMemory_DeleteOlderThan(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Now()
	seedToken(t, repo, "stale", "u1", now.Add(-10*24*time.Hour))
	seedToken(t, repo, "fresh", "u1", now.Add(-time.Hour))

	n, err := repo.DeleteOlderThan(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByValue(context.Background(), "stale")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.FindByValue(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestMemory_ConcurrentTouchAndDelete(t *testing.T) {
	repo := NewMemoryRepository()
	seedToken(t, repo, "tok1", "u1", time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.Touch(context.Background(), "tok1", time.Now())
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.DeleteByValue(context.Background(), "tok1")
		}()
	}
	wg.Wait()
}
