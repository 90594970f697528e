package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository. It backs
// service-level tests and keeps the same atomicity guarantees as the
// Postgres implementation: every operation holds the lock for its whole
// read-modify-write.
type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.Token
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.Token)}
}

func (r *MemoryRepository) Insert(ctx context.Context, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token.Value]; ok {
		return common.ErrorConflict
	}
	r.tokens[token.Value] = *token
	return nil
}

func (r *MemoryRepository) FindByValue(ctx context.Context, value string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[value]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &token, nil
}

func (r *MemoryRepository) Touch(ctx context.Context, value string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[value]
	if !ok {
		return 0, nil
	}
	token.LastUsedAt = now
	r.tokens[value] = token
	return 1, nil
}

func (r *MemoryRepository) DeleteByValue(ctx context.Context, value string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[value]; !ok {
		return 0, nil
	}
	delete(r.tokens, value)
	return 1, nil
}

func (r *MemoryRepository) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for value, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, value)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryRepository) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for value, token := range r.tokens {
		if token.LastUsedAt.Before(threshold) {
			delete(r.tokens, value)
			removed++
		}
	}
	return removed, nil
}
