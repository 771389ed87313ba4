// Package events holds the cross-cutting event pipeline: domain events raised
// inside one bounded context, the per-context bus that dispatches them, and
// the integration events that cross context boundaries.
package events

import (
	"time"

	dErrors "kitahub/pkg/domain-errors"
)

// Context identifies a bounded context. Every domain event names the context
// that raised it, and every integration event names the context it came from.
type Context string

const (
	ContextTenant         Context = "tenant"
	ContextFamily         Context = "family"
	ContextIdentity       Context = "identity"
	ContextProgramCatalog Context = "program_catalog"
	ContextEnrollment     Context = "enrollment"
)

// Type tags a domain event. Each context declares its own closed catalog of
// types in its events package; the bus treats the tag as opaque.
type Type string

// DomainEvent records something that happened inside one bounded context.
// It is constructed when a use case commits a state change, dispatched
// synchronously on the owning context's bus, and never persisted.
//
// Treat instances as immutable: the payload map is copied at construction and
// must not be mutated afterwards.
type DomainEvent struct {
	Type        Type
	AggregateID string
	Source      Context
	Payload     map[string]any
	OccurredAt  time.Time
}

// NewDomainEvent stamps OccurredAt from the system clock; callers cannot
// inject a timestamp. The aggregate ID must be non-empty.
func NewDomainEvent(t Type, aggregateID string, source Context, payload map[string]any) (DomainEvent, error) {
	if aggregateID == "" {
		return DomainEvent{}, dErrors.New(dErrors.CodeInvalidInput, "domain event requires a non-empty aggregate id")
	}
	return DomainEvent{
		Type:        t,
		AggregateID: aggregateID,
		Source:      source,
		Payload:     copyPayload(payload),
		OccurredAt:  time.Now(),
	}, nil
}

// copyPayload shields the event from later mutation of the caller's map.
func copyPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}
