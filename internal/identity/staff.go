// Package identity is the bounded context for staff members.
package identity

import (
	"strings"
	"time"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

// StaffRole is the closed set of roles a staff member can hold.
type StaffRole string

const (
	RoleEducator  StaffRole = "educator"
	RoleAssistant StaffRole = "assistant"
	RoleDirector  StaffRole = "director"
)

var validRoles = map[StaffRole]bool{
	RoleEducator:  true,
	RoleAssistant: true,
	RoleDirector:  true,
}

// StaffMember is the aggregate root for an employee of a tenant.
type StaffMember struct {
	ID        domain.StaffID  `json:"id"`
	TenantID  domain.TenantID `json:"tenant_id"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Role      StaffRole       `json:"role"`
	Status    StaffStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StaffAttrs is the construction/update input for a staff member.
type StaffAttrs struct {
	TenantID domain.TenantID
	FullName string
	Email    string
	Role     StaffRole
}

func NewStaffMember(id domain.StaffID, attrs StaffAttrs, now time.Time) (*StaffMember, error) {
	if errs := validateStaffAttrs(attrs); len(errs) > 0 {
		return nil, errs
	}
	return &StaffMember{
		ID:        id,
		TenantID:  attrs.TenantID,
		FullName:  strings.TrimSpace(attrs.FullName),
		Email:     strings.ToLower(strings.TrimSpace(attrs.Email)),
		Role:      attrs.Role,
		Status:    StaffStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateStaffAttrs(attrs StaffAttrs) dErrors.ValidationErrors {
	var errs dErrors.ValidationErrors
	if attrs.TenantID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "tenant_id", Message: "is required"})
	}
	if strings.TrimSpace(attrs.FullName) == "" {
		errs = append(errs, dErrors.FieldError{Field: "full_name", Message: "is required"})
	}
	if email := strings.TrimSpace(attrs.Email); email == "" || !strings.Contains(email, "@") {
		errs = append(errs, dErrors.FieldError{Field: "email", Message: "must be a valid address"})
	}
	if !validRoles[attrs.Role] {
		errs = append(errs, dErrors.FieldError{Field: "role", Message: "is not a known role"})
	}
	return errs
}

func (m *StaffMember) ApplyUpdate(attrs StaffAttrs, now time.Time) error {
	if errs := validateStaffAttrs(attrs); len(errs) > 0 {
		return errs
	}
	m.FullName = strings.TrimSpace(attrs.FullName)
	m.Email = strings.ToLower(strings.TrimSpace(attrs.Email))
	m.Role = attrs.Role
	m.UpdatedAt = now
	return nil
}

func (m *StaffMember) CanDeactivate() error {
	if m.Status == StaffStatusInactive {
		return dErrors.New(dErrors.CodeInvariantViolation, "staff member is already inactive")
	}
	return nil
}

func (m *StaffMember) ApplyDeactivation(now time.Time) {
	m.Status = StaffStatusInactive
	m.UpdatedAt = now
}
