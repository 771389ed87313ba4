package enrollment

import (
	"context"
	"fmt"

	"kitahub/internal/events"
	"kitahub/internal/events/publish"
)

const PromotionPriority = 100

// PromotionHandler maps this context's domain events onto the integration
// namespace. Policy events travel keyed by the program they apply to;
// consent withdrawal is one of the two critical event types in the system.
type PromotionHandler struct {
	publishing *publish.Publishing
}

func NewPromotionHandler(publishing *publish.Publishing) *PromotionHandler {
	return &PromotionHandler{publishing: publishing}
}

func (h *PromotionHandler) Handle(ctx context.Context, e events.DomainEvent) error {
	switch e.Type {
	case EventParticipantPolicySet:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.ParticipantPolicySet, events.ContextEnrollment, events.EntityParticipantPolicy, e.AggregateID, e.Payload))
	case EventEnrollmentWithdrawn:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.EnrollmentWithdrawn, events.ContextEnrollment, events.EntityEnrollment, e.AggregateID, e.Payload))
	case EventConsentWithdrawn:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.ConsentWithdrawn, events.ContextEnrollment, events.EntityConsent, e.AggregateID, e.Payload))
	case EventChildEnrolled, EventConsentGranted:
		// In-context only; deliberately not promoted.
		return nil
	default:
		return fmt.Errorf("enrollment promotion: %s: %w", e.Type, events.ErrUnhandledEventType)
	}
}
