package audit

import (
	"context"
	"sync"
)

// Store is the append-only persistence port for audit records. There is no
// update or delete: the trail only grows.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListByEntity(ctx context.Context, entityID string) ([]Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *InMemoryStore) ListByEntity(_ context.Context, entityID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := len(s.records) - limit
	if start < 0 {
		start = 0
	}
	return append([]Record(nil), s.records[start:]...), nil
}
