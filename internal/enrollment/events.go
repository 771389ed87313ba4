package enrollment

import (
	"kitahub/internal/events"
	"kitahub/pkg/domain"
)

// Domain event catalog of the enrollment context.
const (
	EventChildEnrolled        events.Type = "child_enrolled"
	EventEnrollmentWithdrawn  events.Type = "enrollment_withdrawn"
	EventParticipantPolicySet events.Type = "participant_policy_set"
	EventConsentGranted       events.Type = "consent_granted"
	EventConsentWithdrawn     events.Type = "consent_withdrawn"
)

func NewChildEnrolledEvent(enrollmentID domain.EnrollmentID, payload map[string]any) (events.DomainEvent, error) {
	return newEnrollmentEvent(EventChildEnrolled, "enrollment_id", enrollmentID.String(), enrollmentID.IsZero(), payload)
}

func NewEnrollmentWithdrawnEvent(enrollmentID domain.EnrollmentID, payload map[string]any) (events.DomainEvent, error) {
	return newEnrollmentEvent(EventEnrollmentWithdrawn, "enrollment_id", enrollmentID.String(), enrollmentID.IsZero(), payload)
}

// NewParticipantPolicySetEvent is keyed by the program the policy applies to,
// not by a policy identity of its own.
func NewParticipantPolicySetEvent(programID domain.ProgramID, payload map[string]any) (events.DomainEvent, error) {
	return newEnrollmentEvent(EventParticipantPolicySet, "program_id", programID.String(), programID.IsZero(), payload)
}

func NewConsentGrantedEvent(consentID domain.ConsentID, payload map[string]any) (events.DomainEvent, error) {
	return newEnrollmentEvent(EventConsentGranted, "consent_id", consentID.String(), consentID.IsZero(), payload)
}

func NewConsentWithdrawnEvent(consentID domain.ConsentID, payload map[string]any) (events.DomainEvent, error) {
	return newEnrollmentEvent(EventConsentWithdrawn, "consent_id", consentID.String(), consentID.IsZero(), payload)
}

// newEnrollmentEvent merges the payload and then writes the explicit
// identifier under idKey, so the argument wins over anything the caller put
// in the payload under the same key.
func newEnrollmentEvent(t events.Type, idKey, id string, idZero bool, payload map[string]any) (events.DomainEvent, error) {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged[idKey] = id

	aggregateID := ""
	if !idZero {
		aggregateID = id
	}
	return events.NewDomainEvent(t, aggregateID, events.ContextEnrollment, merged)
}
