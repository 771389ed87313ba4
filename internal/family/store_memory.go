package family

import (
	"context"
	"sync"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

// InMemoryStore is the default store for development and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	children map[domain.ChildID]*Child
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{children: make(map[domain.ChildID]*Child)}
}

func (s *InMemoryStore) Create(_ context.Context, child *Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.children[child.ID]; exists {
		return sentinel.ErrConflict
	}
	s.children[child.ID] = cloneChild(child)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.ChildID) (*Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	child, ok := s.children[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneChild(child), nil
}

func (s *InMemoryStore) Update(_ context.Context, child *Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.children[child.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.children[child.ID] = cloneChild(child)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.ChildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.children[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.children, id)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID domain.TenantID) ([]*Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Child
	for _, child := range s.children {
		if child.TenantID == tenantID {
			out = append(out, cloneChild(child))
		}
	}
	return out, nil
}

// cloneChild keeps callers from mutating stored state in place.
func cloneChild(c *Child) *Child {
	clone := *c
	clone.Guardians = append([]Guardian(nil), c.Guardians...)
	return &clone
}
