package audit

import (
	"context"
	"log/slog"
	"time"

	"kitahub/internal/events"
	"kitahub/internal/events/subscribe"
)

// Subscriber listens to the whole integration stream and appends the
// critical events to the audit trail. Non-critical events are handled and
// dropped; the trail is for legally significant facts only.
type Subscriber struct {
	store  Store
	logger *slog.Logger
}

func NewSubscriber(store Store, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{store: store, logger: logger}
}

func (s *Subscriber) Name() string { return "audit" }

func (s *Subscriber) SubscribedEvents() []events.IntegrationType {
	return events.AllIntegrationTypes()
}

func (s *Subscriber) HandleEvent(ctx context.Context, event events.IntegrationEvent) (bool, error) {
	if !subscribe.Subscribed(s, event.Type) {
		return false, nil
	}
	if !event.Critical() {
		return true, nil
	}

	record := NewRecord(event, time.Now())
	if err := s.store.Append(ctx, record); err != nil {
		return true, err
	}
	s.logger.Info("critical event recorded",
		"event_type", string(event.Type),
		"entity_id", event.EntityID,
		"audit_record_id", record.ID.String(),
	)
	return true, nil
}
