package events

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire format shared by the broadcast transports. Criticality
// is deliberately absent: it is re-derived from the type on the consuming
// side so a tampered or stale flag can never travel with the event.
type envelope struct {
	EventType     string         `json:"event_type"`
	SourceContext string         `json:"source_context"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// MarshalIntegration encodes an integration event for the wire.
func MarshalIntegration(e IntegrationEvent) ([]byte, error) {
	data, err := json.Marshal(envelope{
		EventType:     string(e.Type),
		SourceContext: string(e.Source),
		EntityType:    string(e.Entity),
		EntityID:      e.EntityID,
		Payload:       e.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal integration event %s: %w", e.Type, err)
	}
	return data, nil
}

// UnmarshalIntegration decodes a wire message back into an integration event.
func UnmarshalIntegration(data []byte) (IntegrationEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return IntegrationEvent{}, fmt.Errorf("unmarshal integration event: %w", err)
	}
	return NewIntegrationEvent(
		IntegrationType(env.EventType),
		Context(env.SourceContext),
		EntityType(env.EntityType),
		env.EntityID,
		env.Payload,
	), nil
}
