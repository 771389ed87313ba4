// Package tenant manages the organizations every other context scopes its
// data to.
package tenant

import (
	"strings"
	"time"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Tenant is the aggregate root for one organization.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Status transitions: active <-> inactive only
//   - CreatedAt is immutable after construction
type Tenant struct {
	ID        domain.TenantID `json:"id"`
	Name      string          `json:"name"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewTenant(id domain.TenantID, name string, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return &Tenant{
		ID:        id,
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

func (t *Tenant) CanDeactivate() error {
	if t.Status == StatusInactive {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already inactive")
	}
	return nil
}

func (t *Tenant) ApplyDeactivation(now time.Time) {
	t.Status = StatusInactive
	t.UpdatedAt = now
}

func (t *Tenant) CanReactivate() error {
	if t.Status == StatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already active")
	}
	return nil
}

func (t *Tenant) ApplyReactivation(now time.Time) {
	t.Status = StatusActive
	t.UpdatedAt = now
}
