// Package publish is the integration-event publishing port. Promotion
// handlers hand it events; a configured Publisher adapter puts them on the
// broadcast transport.
package publish

import (
	"context"
	"log/slog"

	"kitahub/internal/events"
)

// Publisher is the transport port. Adapters exist for in-process dispatch
// (local), Redis Pub/Sub, Kafka, and a recording test double (memory).
type Publisher interface {
	Publish(ctx context.Context, event events.IntegrationEvent) error
}

// Publishing wraps the configured Publisher with logging and metrics.
// It forwards the adapter's result verbatim: publish errors are the caller's
// to handle, never swallowed here.
type Publishing struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *Metrics
}

// New builds the publishing service. Metrics may be nil in tests.
func New(publisher Publisher, logger *slog.Logger, metrics *Metrics) *Publishing {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publishing{publisher: publisher, logger: logger, metrics: metrics}
}

// Publish sends the event to the transport and returns the transport's
// result unchanged.
func (p *Publishing) Publish(ctx context.Context, event events.IntegrationEvent) error {
	err := p.publisher.Publish(ctx, event)
	if p.metrics != nil {
		p.metrics.observePublish(event, err)
	}
	if err != nil {
		p.logger.Error("integration event publish failed",
			"topic", event.Topic(),
			"entity_id", event.EntityID,
			"error", err,
		)
		return err
	}
	if event.Critical() {
		p.logger.Warn("critical integration event published",
			"topic", event.Topic(),
			"entity_id", event.EntityID,
		)
	} else {
		p.logger.Debug("integration event published",
			"topic", event.Topic(),
			"entity_id", event.EntityID,
		)
	}
	return nil
}
