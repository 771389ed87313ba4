//go:build integration

package redispubsub_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/internal/events"
	"kitahub/internal/events/publish/redispubsub"
	"kitahub/internal/events/subscribe"
	"kitahub/pkg/testutil/containers"
)

// collectingSubscriber records every event it is offered.
type collectingSubscriber struct {
	mu     sync.Mutex
	types  []events.IntegrationType
	events []events.IntegrationEvent
}

func (c *collectingSubscriber) Name() string { return "collector" }

func (c *collectingSubscriber) SubscribedEvents() []events.IntegrationType { return c.types }

func (c *collectingSubscriber) HandleEvent(_ context.Context, event events.IntegrationEvent) (bool, error) {
	for _, t := range c.types {
		if t == event.Type {
			c.mu.Lock()
			c.events = append(c.events, event)
			c.mu.Unlock()
			return true, nil
		}
	}
	return false, nil
}

func (c *collectingSubscriber) received() []events.IntegrationEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.IntegrationEvent(nil), c.events...)
}

func TestRedisPubSubRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := &collectingSubscriber{types: []events.IntegrationType{events.ChildDataAnonymized}}
	dispatcher := subscribe.NewDispatcher(nil)
	dispatcher.Register(collector)

	runner := redispubsub.NewRunner(rc.Client, dispatcher, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()

	// PSubscribe needs a moment before publishes are visible to it.
	time.Sleep(500 * time.Millisecond)

	publisher := redispubsub.NewPublisher(rc.Client)
	childID := uuid.NewString()
	sent := events.NewIntegrationEvent(
		events.ChildDataAnonymized, events.ContextFamily,
		events.EntityChild, childID, map[string]any{"tenant_id": uuid.NewString()},
	)
	require.NoError(t, publisher.Publish(ctx, sent))

	require.Eventually(t, func() bool {
		return len(collector.received()) == 1
	}, 10*time.Second, 50*time.Millisecond)

	got := collector.received()[0]
	assert.Equal(t, events.ChildDataAnonymized, got.Type)
	assert.Equal(t, events.ContextFamily, got.Source)
	assert.Equal(t, childID, got.EntityID)
	assert.True(t, got.Critical(), "criticality is re-derived from the type after decode")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
