package accounts

import (
	"context"
	"sync"

	"taxdesk-backend/internal/models"
)

// MemoryStore keeps users in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: map[string]models.User{}, byEmail: map[string]string{}}
}

func (m *MemoryStore) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := NormalizeEmail(u.Email)
	if _, taken := m.byEmail[email]; taken {
		return ErrEmailTaken
	}
	stored := *u
	stored.Email = email
	m.byID[u.ID] = stored
	m.byEmail[email] = u.ID
	return nil
}

func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	id, ok := m.byEmail[NormalizeEmail(email)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
