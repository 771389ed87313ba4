package identity

import (
	"context"
	"sync"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

// Store is the persistence port for staff members.
type Store interface {
	Create(ctx context.Context, member *StaffMember) error
	Get(ctx context.Context, id domain.StaffID) (*StaffMember, error)
	Update(ctx context.Context, member *StaffMember) error
	Delete(ctx context.Context, id domain.StaffID) error
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]*StaffMember, error)
}

type InMemoryStore struct {
	mu    sync.RWMutex
	staff map[domain.StaffID]*StaffMember
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{staff: make(map[domain.StaffID]*StaffMember)}
}

func (s *InMemoryStore) Create(_ context.Context, member *StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.staff[member.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *member
	s.staff[member.ID] = &clone
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.StaffID) (*StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.staff[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *member
	return &clone, nil
}

func (s *InMemoryStore) Update(_ context.Context, member *StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[member.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *member
	s.staff[member.ID] = &clone
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.StaffID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.staff, id)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID domain.TenantID) ([]*StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*StaffMember
	for _, member := range s.staff {
		if member.TenantID == tenantID {
			clone := *member
			out = append(out, &clone)
		}
	}
	return out, nil
}
