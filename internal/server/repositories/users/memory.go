package users

import (
	"context"
	"sort"
	"sync"

	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/server/models"
)

// MemoryRepository is a mutex-guarded in-memory Repository for tests.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]models.User
	seq   int
	order map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]models.User),
		order: make(map[string]int),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}
	r.seq++
	r.order[user.ID] = r.seq
	r.users[user.ID] = *user
	copied := *user
	return &copied, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.ID == id && !u.Inactive })
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) FindByActivationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return token != "" && u.ActivationToken == token })
}

func (r *MemoryRepository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return token != "" && u.PasswordResetToken == token })
}

func (r *MemoryRepository) ListActive(ctx context.Context, excludeID string, limit, offset int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matching []models.User
	for _, u := range r.users {
		if !u.Inactive && u.ID != excludeID {
			matching = append(matching, u)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		return r.order[matching[i].ID] < r.order[matching[j].ID]
	})

	total := int64(len(matching))
	if offset >= len(matching) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	page := make([]*models.User, 0, end-offset)
	for i := offset; i < end; i++ {
		u := matching[i]
		page = append(page, &u)
	}
	return page, total, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return common.ErrorNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	delete(r.order, id)
	return 1, nil
}

func (r *MemoryRepository) findBy(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}
