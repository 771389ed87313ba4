//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"kitahub/internal/events"
	"kitahub/internal/events/publish/kafka"
	"kitahub/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rp := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	publisher, err := kafka.NewPublisher([]string{rp.Broker})
	require.NoError(t, err)
	defer publisher.Close()

	consentID := uuid.NewString()
	sent := events.NewIntegrationEvent(
		events.ConsentWithdrawn, events.ContextEnrollment,
		events.EntityConsent, consentID, map[string]any{"purpose": "photo"},
	)
	require.NoError(t, publisher.Publish(ctx, sent))

	// Broker topic names replace colons with dots.
	topic := kafka.Topic(sent)
	assert.Equal(t, "integration.enrollment.consent_withdrawn", topic)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, consentID, string(records[0].Key), "records are keyed by entity id")

	got, err := events.UnmarshalIntegration(records[0].Value)
	require.NoError(t, err)
	assert.Equal(t, events.ConsentWithdrawn, got.Type)
	assert.Equal(t, consentID, got.EntityID)
	assert.True(t, got.Critical())
}
