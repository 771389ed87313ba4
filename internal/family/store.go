package family

import (
	"context"

	"kitahub/pkg/domain"
)

// Store is the persistence port for child aggregates. Implementations return
// sentinel.ErrNotFound for missing records and sentinel.ErrConflict for
// duplicate creation.
type Store interface {
	Create(ctx context.Context, child *Child) error
	Get(ctx context.Context, id domain.ChildID) (*Child, error)
	Update(ctx context.Context, child *Child) error
	Delete(ctx context.Context, id domain.ChildID) error
	ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]*Child, error)
}
