package family

import (
	"kitahub/internal/events"
	"kitahub/pkg/domain"
)

// Domain event catalog of the family context. Closed set: the promotion
// handler has an explicit case for every type listed here.
const (
	EventChildRegistered     events.Type = "child_registered"
	EventChildUpdated        events.Type = "child_updated"
	EventGuardianLinked      events.Type = "guardian_linked"
	EventChildDataAnonymized events.Type = "child_data_anonymized"
)

// NewChildRegisteredEvent records that a child was registered.
func NewChildRegisteredEvent(childID domain.ChildID, payload map[string]any) (events.DomainEvent, error) {
	return newChildEvent(EventChildRegistered, childID, payload)
}

// NewChildUpdatedEvent records a change to a child's attributes.
func NewChildUpdatedEvent(childID domain.ChildID, payload map[string]any) (events.DomainEvent, error) {
	return newChildEvent(EventChildUpdated, childID, payload)
}

// NewGuardianLinkedEvent records a guardian being linked to a child.
func NewGuardianLinkedEvent(childID domain.ChildID, payload map[string]any) (events.DomainEvent, error) {
	return newChildEvent(EventGuardianLinked, childID, payload)
}

// NewChildDataAnonymizedEvent records the GDPR erasure of a child's data.
func NewChildDataAnonymizedEvent(childID domain.ChildID, payload map[string]any) (events.DomainEvent, error) {
	return newChildEvent(EventChildDataAnonymized, childID, payload)
}

// newChildEvent builds a family domain event keyed by child ID. The explicit
// child ID always wins over a child_id the caller embedded in the raw payload
// map; the rest of the payload is carried through untouched.
func newChildEvent(t events.Type, childID domain.ChildID, payload map[string]any) (events.DomainEvent, error) {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["child_id"] = childID.String()

	aggregateID := ""
	if !childID.IsZero() {
		aggregateID = childID.String()
	}
	return events.NewDomainEvent(t, aggregateID, events.ContextFamily, merged)
}
