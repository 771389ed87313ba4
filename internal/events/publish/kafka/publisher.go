// Package kafka publishes integration events to a Kafka (or Redpanda)
// cluster. Use it when consumers live in separate deployments and need the
// broker's delivery guarantees instead of Redis fan-out.
package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"

	"kitahub/internal/events"
)

// Publisher produces one record per event, keyed by entity ID so records for
// the same entity land on the same partition.
type Publisher struct {
	client *kgo.Client
}

// NewPublisher connects to the given seed brokers.
func NewPublisher(brokers []string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Publisher{client: client}, nil
}

// NewPublisherWithClient wraps an existing client; the caller owns its lifecycle.
func NewPublisherWithClient(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, event events.IntegrationEvent) error {
	payload, err := events.MarshalIntegration(event)
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Topic: Topic(event),
		Key:   []byte(event.EntityID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka produce %s: %w", record.Topic, err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Close()
}

// Topic maps the canonical colon-delimited topic onto Kafka's allowed
// character set (dots instead of colons).
func Topic(event events.IntegrationEvent) string {
	return strings.ReplaceAll(event.Topic(), ":", ".")
}
