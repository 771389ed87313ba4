package tenant

import (
	"context"
	"strings"
	"sync"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

// Store is the persistence port for tenants. Names are unique across the
// installation, case-insensitively.
type Store interface {
	CreateIfNameAvailable(ctx context.Context, t *Tenant) error
	Get(ctx context.Context, id domain.TenantID) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context) ([]*Tenant, error)
}

type InMemoryStore struct {
	mu      sync.RWMutex
	tenants map[domain.TenantID]*Tenant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tenants: make(map[domain.TenantID]*Tenant)}
}

func (s *InMemoryStore) CreateIfNameAvailable(_ context.Context, t *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tenants {
		if strings.EqualFold(existing.Name, t.Name) {
			return sentinel.ErrConflict
		}
	}
	s.tenants[t.ID] = cloneTenant(t)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.TenantID) (*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneTenant(t), nil
}

func (s *InMemoryStore) Update(_ context.Context, t *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.tenants[t.ID] = cloneTenant(t)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, cloneTenant(t))
	}
	return out, nil
}

func cloneTenant(t *Tenant) *Tenant {
	clone := *t
	return &clone
}
