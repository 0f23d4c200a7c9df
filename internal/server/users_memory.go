package server

import (
	"context"
	"sync"

	"github.com/battlecards/service/internal/database"
	"github.com/battlecards/service/internal/models"
)

// MemoryUsers is the in-memory UserStore for dev mode and tests. It returns
// the same sentinel errors as the postgres store.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUsers returns an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]models.User)}
}

func (m *MemoryUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Username]; exists {
		return database.ErrUsernameTaken
	}
	m.users[u.Username] = *u
	return nil
}

func (m *MemoryUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (m *MemoryUsers) UpdateDisplayName(ctx context.Context, username, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return database.ErrUserNotFound
	}
	u.DisplayName = displayName
	m.users[username] = u
	return nil
}
