package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"taxdesk-backend/internal/models"
)

// MemoryStore is a Store for deployments without PostgreSQL. Records are
// lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.CalculationRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.CalculationRecord)}
}

func (m *MemoryStore) Save(_ context.Context, rec *models.CalculationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID string, limit int) ([]models.CalculationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []models.CalculationRecord{}
	for _, rec := range m.records {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.CalculationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, rec := range m.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}
