package family

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kitahub/internal/events"
	familymetrics "kitahub/internal/family/metrics"
	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
	"kitahub/pkg/platform/sentinel"
)

// Service orchestrates the family use cases. Every committed state change is
// followed by a synchronous publish on the family bus; a handler failure
// (including a failed promotion publish) is returned to the caller, while the
// already-committed store write stays applied.
type Service struct {
	store   Store
	bus     *events.Bus
	logger  *slog.Logger
	metrics *familymetrics.Metrics
}

// NewService wires the family context. The bus handle is injected; there is
// no ambient bus lookup. Metrics may be nil in tests.
func NewService(store Store, bus *events.Bus, logger *slog.Logger, metrics *familymetrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, bus: bus, logger: logger, metrics: metrics}
}

func (s *Service) RegisterChild(ctx context.Context, attrs ChildAttrs) (*Child, error) {
	now := time.Now()
	child, err := NewChild(domain.ChildID(uuid.New()), attrs, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, child); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create child")
	}

	event, err := NewChildRegisteredEvent(child.ID, map[string]any{
		"tenant_id":  child.TenantID.String(),
		"first_name": child.FirstName,
		"last_name":  child.LastName,
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ChildrenRegistered.Inc()
	}
	return child, nil
}

func (s *Service) GetChild(ctx context.Context, id domain.ChildID) (*Child, error) {
	child, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapChildErr(err)
	}
	return child, nil
}

func (s *Service) ListChildren(ctx context.Context, tenantID domain.TenantID) ([]*Child, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

func (s *Service) UpdateChild(ctx context.Context, id domain.ChildID, attrs ChildAttrs) (*Child, error) {
	now := time.Now()
	child, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapChildErr(err)
	}
	if err := child.ApplyUpdate(attrs, now); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, child); err != nil {
		return nil, wrapChildErr(err)
	}

	event, err := NewChildUpdatedEvent(child.ID, map[string]any{
		"tenant_id": child.TenantID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *Service) LinkGuardian(ctx context.Context, childID domain.ChildID, guardian Guardian) (*Child, error) {
	now := time.Now()
	child, err := s.store.Get(ctx, childID)
	if err != nil {
		return nil, wrapChildErr(err)
	}
	if guardian.ID.IsZero() {
		guardian.ID = domain.GuardianID(uuid.New())
	}
	if err := child.LinkGuardian(guardian, now); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, child); err != nil {
		return nil, wrapChildErr(err)
	}

	event, err := NewGuardianLinkedEvent(child.ID, map[string]any{
		"guardian_id": guardian.ID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return child, nil
}

// AnonymizeChildData erases the child's personal data (data subject erasure).
// The record survives so other contexts keep a valid reference; the critical
// integration event tells them to scrub their own copies.
func (s *Service) AnonymizeChildData(ctx context.Context, childID domain.ChildID) error {
	now := time.Now()
	child, err := s.store.Get(ctx, childID)
	if err != nil {
		return wrapChildErr(err)
	}
	if err := child.CanAnonymize(); err != nil {
		return dErrors.New(dErrors.CodeConflict, "child data is already anonymized")
	}
	child.ApplyAnonymization(now)
	if err := s.store.Update(ctx, child); err != nil {
		return wrapChildErr(err)
	}

	event, err := NewChildDataAnonymizedEvent(child.ID, map[string]any{
		"tenant_id": child.TenantID.String(),
	})
	if err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ChildrenAnonymized.Inc()
	}
	s.logger.Info("child data anonymized", "child_id", child.ID.String())
	return nil
}

func (s *Service) DeleteChild(ctx context.Context, id domain.ChildID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return wrapChildErr(err)
	}
	return nil
}

func wrapChildErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "child not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "child store failure")
}
