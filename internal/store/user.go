package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/exitflow/apiserver/types"
	"github.com/google/uuid"
)

// UserStore holds user records in process memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]types.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]types.User)}
}

func (s *UserStore) GetByID(ctx context.Context, id string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Create inserts a user. Username uniqueness is enforced under the
// write lock; a duplicate returns ErrConflict.
func (s *UserStore) Create(ctx context.Context, user types.User) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return types.User{}, ErrConflict
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = user
	return user, nil
}
