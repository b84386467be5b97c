// Package memory provides mutex-guarded in-process implementations of the
// repository interfaces. They back the test suite and the no-Postgres dev
// mode; semantics (atomic counters, create-if-absent convergence,
// directional mark-read) match the postgres package.
package memory

import (
	"context"
	"sync"

	"github.com/linkup-app/linkup/internal/domain"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User // by handle
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Handle] = *user
	return nil
}

func (r *UserRepo) GetByHandle(_ context.Context, handle string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[handle]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}
