package identity

import (
	"kitahub/internal/events"
	"kitahub/pkg/domain"
)

// Domain event catalog of the identity context.
const (
	EventStaffCreated     events.Type = "staff_created"
	EventStaffUpdated     events.Type = "staff_updated"
	EventStaffDeactivated events.Type = "staff_deactivated"
)

func NewStaffCreatedEvent(staffID domain.StaffID, payload map[string]any) (events.DomainEvent, error) {
	return newStaffEvent(EventStaffCreated, staffID, payload)
}

func NewStaffUpdatedEvent(staffID domain.StaffID, payload map[string]any) (events.DomainEvent, error) {
	return newStaffEvent(EventStaffUpdated, staffID, payload)
}

func NewStaffDeactivatedEvent(staffID domain.StaffID, payload map[string]any) (events.DomainEvent, error) {
	return newStaffEvent(EventStaffDeactivated, staffID, payload)
}

// newStaffEvent keys the event by staff ID; the explicit ID overrides any
// staff_id the caller put in the payload.
func newStaffEvent(t events.Type, staffID domain.StaffID, payload map[string]any) (events.DomainEvent, error) {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["staff_id"] = staffID.String()

	aggregateID := ""
	if !staffID.IsZero() {
		aggregateID = staffID.String()
	}
	return events.NewDomainEvent(t, aggregateID, events.ContextIdentity, merged)
}
