// Package audit keeps an append-only trail of the critical integration
// events the platform emits. It is a platform concern, not a bounded
// context: it owns no aggregates and promotes nothing.
package audit

import (
	"time"

	"github.com/google/uuid"

	"kitahub/internal/events"
)

// Record is one audited integration event. Criticality is re-derived from
// the event type when the record is read back, so it is not stored.
type Record struct {
	ID         uuid.UUID              `json:"id"`
	RecordedAt time.Time              `json:"recorded_at"`
	EventType  events.IntegrationType `json:"event_type"`
	Source     events.Context         `json:"source_context"`
	Entity     events.EntityType      `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Payload    map[string]any         `json:"payload,omitempty"`
}

func NewRecord(event events.IntegrationEvent, now time.Time) Record {
	return Record{
		ID:         uuid.New(),
		RecordedAt: now,
		EventType:  event.Type,
		Source:     event.Source,
		Entity:     event.Entity,
		EntityID:   event.EntityID,
		Payload:    event.Payload,
	}
}
