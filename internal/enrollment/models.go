// Package enrollment is the bounded context that places children into
// programs and tracks participant policies and consent records.
package enrollment

import (
	"time"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusWithdrawn EnrollmentStatus = "withdrawn"
)

// Enrollment is the aggregate tying one child to one program.
//
// Status transitions: active -> withdrawn only. A withdrawn enrollment is
// kept for record keeping; its child reference may later be scrubbed when
// the family context anonymizes the child.
type Enrollment struct {
	ID          domain.EnrollmentID `json:"id"`
	TenantID    domain.TenantID     `json:"tenant_id"`
	ChildID     domain.ChildID      `json:"child_id"`
	ProgramID   domain.ProgramID    `json:"program_id"`
	Status      EnrollmentStatus    `json:"status"`
	EnrolledAt  time.Time           `json:"enrolled_at"`
	WithdrawnAt *time.Time          `json:"withdrawn_at,omitempty"`
}

type EnrollAttrs struct {
	TenantID  domain.TenantID
	ChildID   domain.ChildID
	ProgramID domain.ProgramID
}

func NewEnrollment(id domain.EnrollmentID, attrs EnrollAttrs, now time.Time) (*Enrollment, error) {
	var errs dErrors.ValidationErrors
	if attrs.TenantID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "tenant_id", Message: "is required"})
	}
	if attrs.ChildID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "child_id", Message: "is required"})
	}
	if attrs.ProgramID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "program_id", Message: "is required"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &Enrollment{
		ID:         id,
		TenantID:   attrs.TenantID,
		ChildID:    attrs.ChildID,
		ProgramID:  attrs.ProgramID,
		Status:     EnrollmentStatusActive,
		EnrolledAt: now,
	}, nil
}

func (e *Enrollment) CanWithdraw() error {
	if e.Status == EnrollmentStatusWithdrawn {
		return dErrors.New(dErrors.CodeInvariantViolation, "enrollment is already withdrawn")
	}
	return nil
}

func (e *Enrollment) ApplyWithdrawal(now time.Time) {
	e.Status = EnrollmentStatusWithdrawn
	e.WithdrawnAt = &now
}

// ScrubChildReference removes the link to an anonymized child. Idempotent.
func (e *Enrollment) ScrubChildReference() {
	e.ChildID = domain.ChildID{}
}

// ParticipantPolicy holds the per-program participation rules owned by this
// context. One policy per program; setting it again replaces the previous one.
type ParticipantPolicy struct {
	ProgramID        domain.ProgramID `json:"program_id"`
	TenantID         domain.TenantID  `json:"tenant_id"`
	MaxAbsences      int              `json:"max_absences"`
	RequiredConsents []ConsentPurpose `json:"required_consents"`
	SetAt            time.Time        `json:"set_at"`
}

type PolicyAttrs struct {
	TenantID         domain.TenantID
	MaxAbsences      int
	RequiredConsents []ConsentPurpose
}

func NewParticipantPolicy(programID domain.ProgramID, attrs PolicyAttrs, now time.Time) (*ParticipantPolicy, error) {
	var errs dErrors.ValidationErrors
	if programID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "program_id", Message: "is required"})
	}
	if attrs.TenantID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "tenant_id", Message: "is required"})
	}
	if attrs.MaxAbsences < 0 {
		errs = append(errs, dErrors.FieldError{Field: "max_absences", Message: "must not be negative"})
	}
	for _, p := range attrs.RequiredConsents {
		if !p.Valid() {
			errs = append(errs, dErrors.FieldError{Field: "required_consents", Message: "unknown purpose " + string(p)})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &ParticipantPolicy{
		ProgramID:        programID,
		TenantID:         attrs.TenantID,
		MaxAbsences:      attrs.MaxAbsences,
		RequiredConsents: append([]ConsentPurpose(nil), attrs.RequiredConsents...),
		SetAt:            now,
	}, nil
}

// ConsentPurpose is the closed set of things a guardian can consent to.
type ConsentPurpose string

const (
	PurposePhoto   ConsentPurpose = "photo"
	PurposeOutings ConsentPurpose = "outings"
	PurposeMedical ConsentPurpose = "medical"
)

func (p ConsentPurpose) Valid() bool {
	switch p {
	case PurposePhoto, PurposeOutings, PurposeMedical:
		return true
	}
	return false
}

type ConsentStatus string

const (
	ConsentStatusGranted   ConsentStatus = "granted"
	ConsentStatusWithdrawn ConsentStatus = "withdrawn"
)

// ConsentRecord is one grant of a purpose for one child. Withdrawal keeps the
// record with its status flipped; a fresh grant creates a new record.
type ConsentRecord struct {
	ID          domain.ConsentID `json:"id"`
	TenantID    domain.TenantID  `json:"tenant_id"`
	ChildID     domain.ChildID   `json:"child_id"`
	Purpose     ConsentPurpose   `json:"purpose"`
	Status      ConsentStatus    `json:"status"`
	GrantedAt   time.Time        `json:"granted_at"`
	WithdrawnAt *time.Time       `json:"withdrawn_at,omitempty"`
}

type ConsentAttrs struct {
	TenantID domain.TenantID
	ChildID  domain.ChildID
	Purpose  ConsentPurpose
}

func NewConsentRecord(id domain.ConsentID, attrs ConsentAttrs, now time.Time) (*ConsentRecord, error) {
	var errs dErrors.ValidationErrors
	if attrs.TenantID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "tenant_id", Message: "is required"})
	}
	if attrs.ChildID.IsZero() {
		errs = append(errs, dErrors.FieldError{Field: "child_id", Message: "is required"})
	}
	if !attrs.Purpose.Valid() {
		errs = append(errs, dErrors.FieldError{Field: "purpose", Message: "must be photo, outings or medical"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &ConsentRecord{
		ID:        id,
		TenantID:  attrs.TenantID,
		ChildID:   attrs.ChildID,
		Purpose:   attrs.Purpose,
		Status:    ConsentStatusGranted,
		GrantedAt: now,
	}, nil
}

// CanWithdraw distinguishes the two non-success withdrawal outcomes callers
// must branch on: a consent that is gone vs one withdrawn before.
func (c *ConsentRecord) CanWithdraw() error {
	if c.Status == ConsentStatusWithdrawn {
		return dErrors.New(dErrors.CodeAlreadyWithdrawn, "consent is already withdrawn")
	}
	return nil
}

func (c *ConsentRecord) ApplyWithdrawal(now time.Time) {
	c.Status = ConsentStatusWithdrawn
	c.WithdrawnAt = &now
}

// ScrubChildReference removes the link to an anonymized child. Idempotent.
func (c *ConsentRecord) ScrubChildReference() {
	c.ChildID = domain.ChildID{}
}
