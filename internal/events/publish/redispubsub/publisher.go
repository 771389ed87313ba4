// Package redispubsub broadcasts integration events over Redis Pub/Sub.
// Redis provides at-most-once fan-out to all connected subscribers, which
// matches the pipeline's contract: no persistence, no replay, no cross-topic
// ordering.
package redispubsub

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"kitahub/internal/events"
)

// Publisher publishes each event on its derived topic
// (integration:<source_context>:<event_type>).
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, event events.IntegrationEvent) error {
	payload, err := events.MarshalIntegration(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, event.Topic(), payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", event.Topic(), err)
	}
	return nil
}
