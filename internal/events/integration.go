package events

// IntegrationType tags an event in the cross-context namespace. Unlike domain
// event types, these are shared vocabulary between all contexts.
type IntegrationType string

const (
	ChildRegistered      IntegrationType = "child_registered"
	ChildDataAnonymized  IntegrationType = "child_data_anonymized"
	StaffDeactivated     IntegrationType = "staff_deactivated"
	ProgramArchived      IntegrationType = "program_archived"
	ParticipantPolicySet IntegrationType = "participant_policy_set"
	EnrollmentWithdrawn  IntegrationType = "enrollment_withdrawn"
	ConsentWithdrawn     IntegrationType = "consent_withdrawn"
)

// AllIntegrationTypes returns the closed catalog of integration event types.
// Subscribers that want the whole stream (audit) declare this.
func AllIntegrationTypes() []IntegrationType {
	return []IntegrationType{
		ChildRegistered,
		ChildDataAnonymized,
		StaffDeactivated,
		ProgramArchived,
		ParticipantPolicySet,
		EnrollmentWithdrawn,
		ConsentWithdrawn,
	}
}

// EntityType names the kind of entity an integration event is about.
type EntityType string

const (
	EntityChild             EntityType = "child"
	EntityStaffMember       EntityType = "staff_member"
	EntityProgram           EntityType = "program"
	EntityEnrollment        EntityType = "enrollment"
	EntityParticipantPolicy EntityType = "participant_policy"
	EntityConsent           EntityType = "consent"
)

// criticalTypes is the single source of truth for event criticality.
// Anonymization and consent-withdrawal events carry legal significance and
// must be treated as critical by downstream consumers (audit, alerting).
// Criticality is derived from the type alone, never supplied by callers.
var criticalTypes = map[IntegrationType]bool{
	ChildDataAnonymized: true,
	ConsentWithdrawn:    true,
}

// IntegrationEvent crosses bounded-context boundaries over the broadcast
// transport. It is derived from a domain event by a promotion handler and is
// not persisted or replayed; delivery semantics are the transport's.
type IntegrationEvent struct {
	Type     IntegrationType
	Source   Context
	Entity   EntityType
	EntityID string
	Payload  map[string]any
}

// NewIntegrationEvent performs no identifier validation: the domain event
// that produced it already did, and transports tolerate opaque IDs.
func NewIntegrationEvent(t IntegrationType, source Context, entity EntityType, entityID string, payload map[string]any) IntegrationEvent {
	return IntegrationEvent{
		Type:     t,
		Source:   source,
		Entity:   entity,
		EntityID: entityID,
		Payload:  copyPayload(payload),
	}
}

// Critical reports whether the event type requires heightened downstream
// handling. Total over all types; unlisted types are non-critical.
func (e IntegrationEvent) Critical() bool {
	return criticalTypes[e.Type]
}

// Topic returns the transport topic for this event, in the form
// integration:<source_context>:<event_type>.
func (e IntegrationEvent) Topic() string {
	return "integration:" + string(e.Source) + ":" + string(e.Type)
}
