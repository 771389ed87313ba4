package family

import (
	"context"
	"fmt"

	"kitahub/internal/events"
	"kitahub/internal/events/publish"
)

// PromotionPriority places the promotion handler after in-context
// projections on the family bus.
const PromotionPriority = 100

// PromotionHandler maps the family events that other contexts care about
// into integration events and hands them to publishing. The publisher's
// result is returned unchanged, so a transport failure fails the whole
// domain publish.
type PromotionHandler struct {
	publishing *publish.Publishing
}

func NewPromotionHandler(publishing *publish.Publishing) *PromotionHandler {
	return &PromotionHandler{publishing: publishing}
}

func (h *PromotionHandler) Handle(ctx context.Context, e events.DomainEvent) error {
	switch e.Type {
	case EventChildRegistered:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.ChildRegistered, events.ContextFamily, events.EntityChild, e.AggregateID, e.Payload))
	case EventChildDataAnonymized:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.ChildDataAnonymized, events.ContextFamily, events.EntityChild, e.AggregateID, e.Payload))
	case EventChildUpdated, EventGuardianLinked:
		// In-context only; deliberately not promoted.
		return nil
	default:
		return fmt.Errorf("family promotion: %s: %w", e.Type, events.ErrUnhandledEventType)
	}
}
