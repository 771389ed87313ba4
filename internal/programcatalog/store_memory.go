package programcatalog

import (
	"context"
	"sync"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

// Store is the persistence port for programs.
type Store interface {
	Create(ctx context.Context, program *Program) error
	Get(ctx context.Context, id domain.ProgramID) (*Program, error)
	Update(ctx context.Context, program *Program) error
	Delete(ctx context.Context, id domain.ProgramID) error
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]*Program, error)
}

type InMemoryStore struct {
	mu       sync.RWMutex
	programs map[domain.ProgramID]*Program
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{programs: make(map[domain.ProgramID]*Program)}
}

func (s *InMemoryStore) Create(_ context.Context, program *Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.programs[program.ID]; exists {
		return sentinel.ErrConflict
	}
	s.programs[program.ID] = cloneProgram(program)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.ProgramID) (*Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	program, ok := s.programs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneProgram(program), nil
}

func (s *InMemoryStore) Update(_ context.Context, program *Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[program.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.programs[program.ID] = cloneProgram(program)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.ProgramID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.programs, id)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID domain.TenantID) ([]*Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Program
	for _, program := range s.programs {
		if program.TenantID == tenantID {
			out = append(out, cloneProgram(program))
		}
	}
	return out, nil
}

func cloneProgram(p *Program) *Program {
	clone := *p
	if p.Policy != nil {
		policy := *p.Policy
		policy.RequiredConsents = append([]string(nil), p.Policy.RequiredConsents...)
		clone.Policy = &policy
	}
	return &clone
}
