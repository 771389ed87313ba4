package programcatalog

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

// Service orchestrates the program catalog use cases.
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

func (s *Service) CreateProgram(ctx context.Context, attrs ProgramAttrs) (*Program, error) {
	now := time.Now()
	program, err := NewProgram(domain.ProgramID(uuid.New()), attrs, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, program); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create program")
	}

	event, err := NewProgramCreatedEvent(program.ID, map[string]any{
		"tenant_id": program.TenantID.String(),
		"name":      program.Name,
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *Service) GetProgram(ctx context.Context, id domain.ProgramID) (*Program, error) {
	program, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapProgramErr(err)
	}
	return program, nil
}

func (s *Service) ListPrograms(ctx context.Context, tenantID domain.TenantID) ([]*Program, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

func (s *Service) UpdateProgram(ctx context.Context, id domain.ProgramID, attrs ProgramAttrs) (*Program, error) {
	now := time.Now()
	program, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapProgramErr(err)
	}
	if err := program.ApplyUpdate(attrs, now); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, program); err != nil {
		return nil, wrapProgramErr(err)
	}

	event, err := NewProgramUpdatedEvent(program.ID, map[string]any{
		"tenant_id": program.TenantID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return program, nil
}

// ArchiveProgram closes a program for good and promotes the fact so the
// enrollment context can withdraw its active enrollments.
func (s *Service) ArchiveProgram(ctx context.Context, id domain.ProgramID) (*Program, error) {
	now := time.Now()
	program, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapProgramErr(err)
	}
	if err := program.CanArchive(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "program is already archived")
	}
	program.ApplyArchive(now)
	if err := s.store.Update(ctx, program); err != nil {
		return nil, wrapProgramErr(err)
	}

	event, err := NewProgramArchivedEvent(program.ID, map[string]any{
		"tenant_id": program.TenantID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return program, nil
}

// RecordPolicyProjection is called by the integration subscriber when the
// enrollment context sets a participant policy.
func (s *Service) RecordPolicyProjection(ctx context.Context, programID domain.ProgramID, policy PolicyProjection) error {
	program, err := s.store.Get(ctx, programID)
	if err != nil {
		return wrapProgramErr(err)
	}
	program.ApplyPolicyProjection(policy, time.Now())
	if err := s.store.Update(ctx, program); err != nil {
		return wrapProgramErr(err)
	}
	return nil
}

func wrapProgramErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "program not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "program store failure")
}
