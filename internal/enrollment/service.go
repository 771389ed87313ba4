package enrollment

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

// Service orchestrates enrollments, participant policies and consents.
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

func (s *Service) EnrollChild(ctx context.Context, attrs EnrollAttrs) (*Enrollment, error) {
	now := time.Now()
	enrollment, err := NewEnrollment(domain.EnrollmentID(uuid.New()), attrs, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create enrollment")
	}

	event, err := NewChildEnrolledEvent(enrollment.ID, map[string]any{
		"tenant_id":  enrollment.TenantID.String(),
		"child_id":   enrollment.ChildID.String(),
		"program_id": enrollment.ProgramID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *Service) GetEnrollment(ctx context.Context, id domain.EnrollmentID) (*Enrollment, error) {
	enrollment, err := s.store.GetEnrollment(ctx, id)
	if err != nil {
		return nil, wrapEnrollmentErr(err)
	}
	return enrollment, nil
}

func (s *Service) ListEnrollmentsForChild(ctx context.Context, childID domain.ChildID) ([]*Enrollment, error) {
	return s.store.ListEnrollmentsByChild(ctx, childID)
}

func (s *Service) WithdrawEnrollment(ctx context.Context, id domain.EnrollmentID) (*Enrollment, error) {
	enrollment, err := s.store.GetEnrollment(ctx, id)
	if err != nil {
		return nil, wrapEnrollmentErr(err)
	}
	if err := s.withdraw(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *Service) withdraw(ctx context.Context, enrollment *Enrollment) error {
	if err := enrollment.CanWithdraw(); err != nil {
		return dErrors.New(dErrors.CodeConflict, "enrollment is already withdrawn")
	}
	enrollment.ApplyWithdrawal(time.Now())
	if err := s.store.UpdateEnrollment(ctx, enrollment); err != nil {
		return wrapEnrollmentErr(err)
	}

	event, err := NewEnrollmentWithdrawnEvent(enrollment.ID, map[string]any{
		"tenant_id":  enrollment.TenantID.String(),
		"child_id":   enrollment.ChildID.String(),
		"program_id": enrollment.ProgramID.String(),
	})
	if err != nil {
		return err
	}
	return s.bus.Publish(ctx, event)
}

// withdrawProgramEnrollments withdraws every active enrollment for a program.
// Used when the program catalog archives a program. Idempotent: a second run
// finds no active enrollments and does nothing.
func (s *Service) withdrawProgramEnrollments(ctx context.Context, programID domain.ProgramID) error {
	active, err := s.store.ListActiveEnrollmentsByProgram(ctx, programID)
	if err != nil {
		return wrapEnrollmentErr(err)
	}
	for _, enrollment := range active {
		if err := s.withdraw(ctx, enrollment); err != nil {
			return err
		}
	}
	if len(active) > 0 {
		s.logger.Info("withdrew enrollments for archived program",
			"program_id", programID.String(),
			"count", len(active),
		)
	}
	return nil
}

// SetParticipantPolicy replaces the program's policy and promotes the fact so
// the program catalog can mirror it.
func (s *Service) SetParticipantPolicy(ctx context.Context, programID domain.ProgramID, attrs PolicyAttrs) (*ParticipantPolicy, error) {
	now := time.Now()
	policy, err := NewParticipantPolicy(programID, attrs, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertPolicy(ctx, policy); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store participant policy")
	}

	consents := make([]string, 0, len(policy.RequiredConsents))
	for _, p := range policy.RequiredConsents {
		consents = append(consents, string(p))
	}
	event, err := NewParticipantPolicySetEvent(programID, map[string]any{
		"tenant_id":         policy.TenantID.String(),
		"max_absences":      policy.MaxAbsences,
		"required_consents": consents,
		"set_at":            policy.SetAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *Service) GetParticipantPolicy(ctx context.Context, programID domain.ProgramID) (*ParticipantPolicy, error) {
	policy, err := s.store.GetPolicy(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no policy set for program")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "policy store failure")
	}
	return policy, nil
}

// GrantConsent records a consent grant. Granting a purpose that already has
// an active consent for the child is a conflict; withdraw first.
func (s *Service) GrantConsent(ctx context.Context, attrs ConsentAttrs) (*ConsentRecord, error) {
	now := time.Now()
	consent, err := NewConsentRecord(domain.ConsentID(uuid.New()), attrs, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetActiveConsent(ctx, attrs.ChildID, attrs.Purpose); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "an active consent for this purpose already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "consent store failure")
	}
	if err := s.store.CreateConsent(ctx, consent); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store consent")
	}

	event, err := NewConsentGrantedEvent(consent.ID, map[string]any{
		"tenant_id": consent.TenantID.String(),
		"child_id":  consent.ChildID.String(),
		"purpose":   string(consent.Purpose),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return consent, nil
}

// WithdrawConsent flips a consent to withdrawn and promotes the critical
// consent_withdrawn event. The two failure outcomes are distinguishable by
// code: CodeNotFound for an unknown consent, CodeAlreadyWithdrawn for a
// repeat withdrawal.
func (s *Service) WithdrawConsent(ctx context.Context, id domain.ConsentID) (*ConsentRecord, error) {
	consent, err := s.store.GetConsent(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "consent not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "consent store failure")
	}
	if err := consent.CanWithdraw(); err != nil {
		return nil, err
	}
	consent.ApplyWithdrawal(time.Now())
	if err := s.store.UpdateConsent(ctx, consent); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store consent withdrawal")
	}

	event, err := NewConsentWithdrawnEvent(consent.ID, map[string]any{
		"tenant_id": consent.TenantID.String(),
		"child_id":  consent.ChildID.String(),
		"purpose":   string(consent.Purpose),
	})
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		return nil, err
	}
	return consent, nil
}

// GetActiveForChild returns the child's active consent for one purpose.
func (s *Service) GetActiveForChild(ctx context.Context, childID domain.ChildID, purpose ConsentPurpose) (*ConsentRecord, error) {
	if !purpose.Valid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown consent purpose")
	}
	consent, err := s.store.GetActiveConsent(ctx, childID, purpose)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no active consent for purpose")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "consent store failure")
	}
	return consent, nil
}

// scrubChildData removes child references from enrollments and consents after
// the family context anonymized the child. No events are emitted; the scrub
// is a reaction, not a new fact. Idempotent: scrubbed records are matched by
// the (now zero) child reference on later runs and skipped.
func (s *Service) scrubChildData(ctx context.Context, childID domain.ChildID) error {
	enrollments, err := s.store.ListEnrollmentsByChild(ctx, childID)
	if err != nil {
		return wrapEnrollmentErr(err)
	}
	for _, e := range enrollments {
		e.ScrubChildReference()
		if err := s.store.UpdateEnrollment(ctx, e); err != nil {
			return wrapEnrollmentErr(err)
		}
	}

	consents, err := s.store.ListConsentsByChild(ctx, childID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "consent store failure")
	}
	for _, c := range consents {
		c.ScrubChildReference()
		if err := s.store.UpdateConsent(ctx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to scrub consent")
		}
	}

	if len(enrollments) > 0 || len(consents) > 0 {
		s.logger.Info("scrubbed child references",
			"child_id", childID.String(),
			"enrollments", len(enrollments),
			"consents", len(consents),
		)
	}
	return nil
}

func wrapEnrollmentErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "enrollment not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "enrollment store failure")
}
