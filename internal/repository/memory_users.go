package repository

import (
	"context"
	"sync"

	"industrial-catalog/internal/domain"
)

type memoryUserRepository struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	byUsername map[string]int64
	lastID     int64
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:      make(map[int64]domain.User),
		byUsername: make(map[string]int64),
	}
}

func (r *memoryUserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, false, nil
	}
	user := r.users[id]
	return &user, true, nil
}

func (r *memoryUserRepository) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[in.Username]; exists {
		return nil, ErrDuplicateUsername
	}

	r.lastID++
	user := domain.User{
		ID:       r.lastID,
		Username: in.Username,
		Password: in.Password,
		Role:     roleOrDefault(in.Role),
	}
	r.users[user.ID] = user
	r.byUsername[user.Username] = user.ID

	return &user, nil
}
