package tenant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
	"kitahub/pkg/platform/sentinel"
)

// Service orchestrates the tenant lifecycle. Tenants emit no integration
// events; their status is read synchronously by whoever needs it.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

func (s *Service) CreateTenant(ctx context.Context, name string) (*Tenant, error) {
	t, err := NewTenant(domain.TenantID(uuid.New()), name, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateIfNameAvailable(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
	}
	s.logger.Info("tenant created", "tenant_id", t.ID.String(), "name", t.Name)
	return t, nil
}

func (s *Service) GetTenant(ctx context.Context, id domain.TenantID) (*Tenant, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	return t, nil
}

func (s *Service) ListTenants(ctx context.Context) ([]*Tenant, error) {
	return s.store.List(ctx)
}

func (s *Service) DeactivateTenant(ctx context.Context, id domain.TenantID) (*Tenant, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	if err := t.CanDeactivate(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "tenant is already inactive")
	}
	t.ApplyDeactivation(time.Now())
	if err := s.store.Update(ctx, t); err != nil {
		return nil, wrapTenantErr(err)
	}
	return t, nil
}

func (s *Service) ReactivateTenant(ctx context.Context, id domain.TenantID) (*Tenant, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	if err := t.CanReactivate(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "tenant is already active")
	}
	t.ApplyReactivation(time.Now())
	if err := s.store.Update(ctx, t); err != nil {
		return nil, wrapTenantErr(err)
	}
	return t, nil
}

func wrapTenantErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "tenant store failure")
}
