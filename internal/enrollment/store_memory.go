package enrollment

import (
	"context"
	"sync"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

// Store is the persistence port for the enrollment context. It covers the
// three record kinds the context owns: enrollments, participant policies
// (one per program) and consent records.
type Store interface {
	CreateEnrollment(ctx context.Context, e *Enrollment) error
	GetEnrollment(ctx context.Context, id domain.EnrollmentID) (*Enrollment, error)
	UpdateEnrollment(ctx context.Context, e *Enrollment) error
	ListEnrollmentsByChild(ctx context.Context, childID domain.ChildID) ([]*Enrollment, error)
	ListActiveEnrollmentsByProgram(ctx context.Context, programID domain.ProgramID) ([]*Enrollment, error)

	UpsertPolicy(ctx context.Context, p *ParticipantPolicy) error
	GetPolicy(ctx context.Context, programID domain.ProgramID) (*ParticipantPolicy, error)

	CreateConsent(ctx context.Context, c *ConsentRecord) error
	GetConsent(ctx context.Context, id domain.ConsentID) (*ConsentRecord, error)
	UpdateConsent(ctx context.Context, c *ConsentRecord) error
	GetActiveConsent(ctx context.Context, childID domain.ChildID, purpose ConsentPurpose) (*ConsentRecord, error)
	ListConsentsByChild(ctx context.Context, childID domain.ChildID) ([]*ConsentRecord, error)
}

type InMemoryStore struct {
	mu          sync.RWMutex
	enrollments map[domain.EnrollmentID]*Enrollment
	policies    map[domain.ProgramID]*ParticipantPolicy
	consents    map[domain.ConsentID]*ConsentRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		enrollments: make(map[domain.EnrollmentID]*Enrollment),
		policies:    make(map[domain.ProgramID]*ParticipantPolicy),
		consents:    make(map[domain.ConsentID]*ConsentRecord),
	}
}

func (s *InMemoryStore) CreateEnrollment(_ context.Context, e *Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.enrollments[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.enrollments[e.ID] = cloneEnrollment(e)
	return nil
}

func (s *InMemoryStore) GetEnrollment(_ context.Context, id domain.EnrollmentID) (*Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enrollments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneEnrollment(e), nil
}

func (s *InMemoryStore) UpdateEnrollment(_ context.Context, e *Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enrollments[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.enrollments[e.ID] = cloneEnrollment(e)
	return nil
}

func (s *InMemoryStore) ListEnrollmentsByChild(_ context.Context, childID domain.ChildID) ([]*Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Enrollment
	for _, e := range s.enrollments {
		if e.ChildID == childID {
			out = append(out, cloneEnrollment(e))
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListActiveEnrollmentsByProgram(_ context.Context, programID domain.ProgramID) ([]*Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Enrollment
	for _, e := range s.enrollments {
		if e.ProgramID == programID && e.Status == EnrollmentStatusActive {
			out = append(out, cloneEnrollment(e))
		}
	}
	return out, nil
}

func (s *InMemoryStore) UpsertPolicy(_ context.Context, p *ParticipantPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.ProgramID] = clonePolicy(p)
	return nil
}

func (s *InMemoryStore) GetPolicy(_ context.Context, programID domain.ProgramID) (*ParticipantPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[programID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clonePolicy(p), nil
}

func (s *InMemoryStore) CreateConsent(_ context.Context, c *ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.consents[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.consents[c.ID] = cloneConsent(c)
	return nil
}

func (s *InMemoryStore) GetConsent(_ context.Context, id domain.ConsentID) (*ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.consents[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneConsent(c), nil
}

func (s *InMemoryStore) UpdateConsent(_ context.Context, c *ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consents[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.consents[c.ID] = cloneConsent(c)
	return nil
}

func (s *InMemoryStore) GetActiveConsent(_ context.Context, childID domain.ChildID, purpose ConsentPurpose) (*ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.consents {
		if c.ChildID == childID && c.Purpose == purpose && c.Status == ConsentStatusGranted {
			return cloneConsent(c), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListConsentsByChild(_ context.Context, childID domain.ChildID) ([]*ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ConsentRecord
	for _, c := range s.consents {
		if c.ChildID == childID {
			out = append(out, cloneConsent(c))
		}
	}
	return out, nil
}

func cloneEnrollment(e *Enrollment) *Enrollment {
	clone := *e
	if e.WithdrawnAt != nil {
		t := *e.WithdrawnAt
		clone.WithdrawnAt = &t
	}
	return &clone
}

func clonePolicy(p *ParticipantPolicy) *ParticipantPolicy {
	clone := *p
	clone.RequiredConsents = append([]ConsentPurpose(nil), p.RequiredConsents...)
	return &clone
}

func cloneConsent(c *ConsentRecord) *ConsentRecord {
	clone := *c
	if c.WithdrawnAt != nil {
		t := *c.WithdrawnAt
		clone.WithdrawnAt = &t
	}
	return &clone
}
