// Package family is the bounded context for children and their guardians.
package family

import (
	"strings"
	"time"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

// ChildStatus is the lifecycle state of a child record.
type ChildStatus string

const (
	ChildStatusActive     ChildStatus = "active"
	ChildStatusAnonymized ChildStatus = "anonymized"
)

// Guardian is a person authorized to act for a child. Owned by the child
// aggregate; not addressable outside it.
type Guardian struct {
	ID           domain.GuardianID `json:"id"`
	FullName     string            `json:"full_name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Relationship string            `json:"relationship"`
}

// Child is the aggregate root for a child enrolled with a tenant.
//
// Invariants:
//   - FirstName and LastName are non-empty (until anonymized)
//   - BirthDate is in the past
//   - Status transitions: active -> anonymized only; anonymization is final
type Child struct {
	ID        domain.ChildID  `json:"id"`
	TenantID  domain.TenantID `json:"tenant_id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	BirthDate time.Time       `json:"birth_date"`
	Status    ChildStatus     `json:"status"`
	Guardians []Guardian      `json:"guardians"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ChildAttrs is the construction/update input for a child.
type ChildAttrs struct {
	TenantID  domain.TenantID
	FirstName string
	LastName  string
	BirthDate time.Time
}

// NewChild validates attrs and builds the aggregate. On failure it returns
// the full list of rule violations, not just the first.
func NewChild(id domain.ChildID, attrs ChildAttrs, now time.Time) (*Child, error) {
	if errs := validateChildAttrs(attrs, now); len(errs) > 0 {
		return nil, errs
	}
	return &Child{
		ID:        id,
		TenantID:  attrs.TenantID,
		FirstName: strings.TrimSpace(attrs.FirstName),
		LastName:  strings.TrimSpace(attrs.LastName),
		BirthDate: attrs.BirthDate,
		Status:    ChildStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateChildAttrs(attrs ChildAttrs, now time.Time) dErrors.ValidationErrors {
	var errs dErrors.ValidationErrors
	if attrs.TenantID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "tenant_id", Message: "is required"})
	}
	if strings.TrimSpace(attrs.FirstName) == "" {
		errs = append(errs, dErrors.FieldError{Field: "first_name", Message: "is required"})
	}
	if strings.TrimSpace(attrs.LastName) == "" {
		errs = append(errs, dErrors.FieldError{Field: "last_name", Message: "is required"})
	}
	if attrs.BirthDate.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "birth_date", Message: "is required"})
	} else if !attrs.BirthDate.Before(now) {
		errs = append(errs, dErrors.FieldError{Field: "birth_date", Message: "must be in the past"})
	}
	return errs
}

// ApplyUpdate revalidates and applies new attributes.
func (c *Child) ApplyUpdate(attrs ChildAttrs, now time.Time) error {
	if c.Status == ChildStatusAnonymized {
		return dErrors.New(dErrors.CodeInvalidInput, "anonymized child records cannot be updated")
	}
	if errs := validateChildAttrs(attrs, now); len(errs) > 0 {
		return errs
	}
	c.FirstName = strings.TrimSpace(attrs.FirstName)
	c.LastName = strings.TrimSpace(attrs.LastName)
	c.BirthDate = attrs.BirthDate
	c.UpdatedAt = now
	return nil
}

// LinkGuardian attaches a guardian to the child.
func (c *Child) LinkGuardian(g Guardian, now time.Time) error {
	if c.Status == ChildStatusAnonymized {
		return dErrors.New(dErrors.CodeInvalidInput, "anonymized child records cannot be updated")
	}
	if strings.TrimSpace(g.FullName) == "" {
		return dErrors.ValidationErrors{{Field: "full_name", Message: "is required"}}
	}
	c.Guardians = append(c.Guardians, g)
	c.UpdatedAt = now
	return nil
}

// CanAnonymize checks the active -> anonymized transition.
func (c *Child) CanAnonymize() error {
	if c.Status == ChildStatusAnonymized {
		return dErrors.New(dErrors.CodeInvariantViolation, "child data is already anonymized")
	}
	return nil
}

// ApplyAnonymization blanks all personal data and marks the record
// anonymized. The record itself survives so enrollments keep a valid
// reference; only the PII is erased. Call CanAnonymize first.
func (c *Child) ApplyAnonymization(now time.Time) {
	c.FirstName = ""
	c.LastName = ""
	c.BirthDate = time.Time{}
	c.Guardians = nil
	c.Status = ChildStatusAnonymized
	c.UpdatedAt = now
}
