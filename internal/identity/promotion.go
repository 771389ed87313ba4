package identity

import (
	"context"
	"fmt"

	"kitahub/internal/events"
	"kitahub/internal/events/publish"
)

const PromotionPriority = 100

// PromotionHandler promotes staff deactivation across context boundaries;
// creation and updates stay inside the identity context.
type PromotionHandler struct {
	publishing *publish.Publishing
}

func NewPromotionHandler(publishing *publish.Publishing) *PromotionHandler {
	return &PromotionHandler{publishing: publishing}
}

func (h *PromotionHandler) Handle(ctx context.Context, e events.DomainEvent) error {
	switch e.Type {
	case EventStaffDeactivated:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.StaffDeactivated, events.ContextIdentity, events.EntityStaffMember, e.AggregateID, e.Payload))
	case EventStaffCreated, EventStaffUpdated:
		return nil
	default:
		return fmt.Errorf("identity promotion: %s: %w", e.Type, events.ErrUnhandledEventType)
	}
}
