package programcatalog

import (
	"context"
	"fmt"

	"kitahub/internal/events"
	"kitahub/internal/events/publish"
)

const PromotionPriority = 100

// PromotionHandler promotes program archival; enrollment reacts to it by
// withdrawing the program's active enrollments.
type PromotionHandler struct {
	publishing *publish.Publishing
}

func NewPromotionHandler(publishing *publish.Publishing) *PromotionHandler {
	return &PromotionHandler{publishing: publishing}
}

func (h *PromotionHandler) Handle(ctx context.Context, e events.DomainEvent) error {
	switch e.Type {
	case EventProgramArchived:
		return h.publishing.Publish(ctx, events.NewIntegrationEvent(
			events.ProgramArchived, events.ContextProgramCatalog, events.EntityProgram, e.AggregateID, e.Payload))
	case EventProgramCreated, EventProgramUpdated:
		return nil
	default:
		return fmt.Errorf("program catalog promotion: %s: %w", e.Type, events.ErrUnhandledEventType)
	}
}
