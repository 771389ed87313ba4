// Package programcatalog is the bounded context for the program offering of
// a tenant (groups, courses, care programs).
package programcatalog

import (
	"strings"
	"time"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

type ProgramStatus string

const (
	ProgramStatusOpen     ProgramStatus = "open"
	ProgramStatusArchived ProgramStatus = "archived"
)

// Program is the aggregate root for one offered program.
//
// Invariants:
//   - Name is non-empty
//   - Capacity is positive
//   - AgeMin <= AgeMax (months)
//   - Status transitions: open -> archived only
type Program struct {
	ID           domain.ProgramID `json:"id"`
	TenantID     domain.TenantID  `json:"tenant_id"`
	Name         string           `json:"name"`
	Capacity     int              `json:"capacity"`
	AgeMinMonths int              `json:"age_min_months"`
	AgeMaxMonths int              `json:"age_max_months"`
	Status       ProgramStatus    `json:"status"`
	// Policy mirrors the participant policy owned by the enrollment context.
	// It is a projection updated from integration events, never edited here.
	Policy    *PolicyProjection `json:"policy,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// PolicyProjection is the program catalog's read-only view of a participant
// policy set by the enrollment context.
type PolicyProjection struct {
	MaxAbsences      int       `json:"max_absences"`
	RequiredConsents []string  `json:"required_consents"`
	SetAt            time.Time `json:"set_at"`
}

// ProgramAttrs is the construction/update input for a program.
type ProgramAttrs struct {
	TenantID     domain.TenantID
	Name         string
	Capacity     int
	AgeMinMonths int
	AgeMaxMonths int
}

func NewProgram(id domain.ProgramID, attrs ProgramAttrs, now time.Time) (*Program, error) {
	if errs := validateProgramAttrs(attrs); len(errs) > 0 {
		return nil, errs
	}
	return &Program{
		ID:           id,
		TenantID:     attrs.TenantID,
		Name:         strings.TrimSpace(attrs.Name),
		Capacity:     attrs.Capacity,
		AgeMinMonths: attrs.AgeMinMonths,
		AgeMaxMonths: attrs.AgeMaxMonths,
		Status:       ProgramStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func validateProgramAttrs(attrs ProgramAttrs) dErrors.ValidationErrors {
	var errs dErrors.ValidationErrors
	if attrs.TenantID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "tenant_id", Message: "is required"})
	}
	if strings.TrimSpace(attrs.Name) == "" {
		errs = append(errs, dErrors.FieldError{Field: "name", Message: "is required"})
	}
	if attrs.Capacity <= 0 {
		errs = append(errs, dErrors.FieldError{Field: "capacity", Message: "must be positive"})
	}
	if attrs.AgeMinMonths < 0 || attrs.AgeMaxMonths < attrs.AgeMinMonths {
		errs = append(errs, dErrors.FieldError{Field: "age_range", Message: "must satisfy 0 <= min <= max"})
	}
	return errs
}

func (p *Program) ApplyUpdate(attrs ProgramAttrs, now time.Time) error {
	if p.Status == ProgramStatusArchived {
		return dErrors.New(dErrors.CodeInvalidInput, "archived programs cannot be updated")
	}
	if errs := validateProgramAttrs(attrs); len(errs) > 0 {
		return errs
	}
	p.Name = strings.TrimSpace(attrs.Name)
	p.Capacity = attrs.Capacity
	p.AgeMinMonths = attrs.AgeMinMonths
	p.AgeMaxMonths = attrs.AgeMaxMonths
	p.UpdatedAt = now
	return nil
}

func (p *Program) CanArchive() error {
	if p.Status == ProgramStatusArchived {
		return dErrors.New(dErrors.CodeInvariantViolation, "program is already archived")
	}
	return nil
}

func (p *Program) ApplyArchive(now time.Time) {
	p.Status = ProgramStatusArchived
	p.UpdatedAt = now
}

// ApplyPolicyProjection records the enrollment context's policy. Idempotent:
// re-applying the same policy just overwrites the projection.
func (p *Program) ApplyPolicyProjection(policy PolicyProjection, now time.Time) {
	p.Policy = &policy
	p.UpdatedAt = now
}
