package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/email-access-policy/internal/domain"
)

// UserRepo keeps registered users for the lifetime of the process, keyed by
// lower-cased email.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.RegisteredUser
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]domain.RegisteredUser)}
}

// Create stores u unless a user with the same email exists, in which case it
// returns ErrConflict and leaves the existing record untouched.
func (r *UserRepo) Create(_ context.Context, u *domain.RegisteredUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, exists := r.users[key]; exists {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	r.users[key] = *u
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.RegisteredUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}
