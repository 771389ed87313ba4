package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kitahub/internal/events"
	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
	"kitahub/pkg/platform/sentinel"
)

// Service orchestrates staff lifecycle management.
type Service struct {
	store  Store
	bus    *events.Bus
	logger *slog.Logger
}

func NewService(store Store, bus *events.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, bus: bus, logger: logger}
}

func (s *Service) CreateStaff(ctx context.Context, attrs StaffAttrs) (*StaffMember, error) {
	now := time.Now()
	member, err := NewStaffMember(domain.StaffID(uuid.New()), attrs, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, member); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create staff member")
	}

	event, err := NewStaffCreatedEvent(member.ID, map[string]any{
		"tenant_id": member.TenantID.String(),
		"role":      string(member.Role),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) GetStaff(ctx context.Context, id domain.StaffID) (*StaffMember, error) {
	member, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapStaffErr(err)
	}
	return member, nil
}

func (s *Service) ListStaff(ctx context.Context, tenantID domain.TenantID) ([]*StaffMember, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

func (s *Service) UpdateStaff(ctx context.Context, id domain.StaffID, attrs StaffAttrs) (*StaffMember, error) {
	now := time.Now()
	member, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapStaffErr(err)
	}
	if err := member.ApplyUpdate(attrs, now); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, member); err != nil {
		return nil, wrapStaffErr(err)
	}

	event, err := NewStaffUpdatedEvent(member.ID, map[string]any{
		"tenant_id": member.TenantID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return member, nil
}

// DeactivateStaff transitions a staff member to inactive and promotes the
// fact so other contexts can drop assignments.
func (s *Service) DeactivateStaff(ctx context.Context, id domain.StaffID) (*StaffMember, error) {
	now := time.Now()
	member, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapStaffErr(err)
	}
	if err := member.CanDeactivate(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "staff member is already inactive")
	}
	member.ApplyDeactivation(now)
	if err := s.store.Update(ctx, member); err != nil {
		return nil, wrapStaffErr(err)
	}

	event, err := NewStaffDeactivatedEvent(member.ID, map[string]any{
		"tenant_id": member.TenantID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) DeleteStaff(ctx context.Context, id domain.StaffID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return wrapStaffErr(err)
	}
	return nil
}

func wrapStaffErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "staff member not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "staff store failure")
}
