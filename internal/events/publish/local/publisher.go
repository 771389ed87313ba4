// Package local delivers integration events to in-process subscribers
// without an external broker. It is the default transport for single-node
// deployments and development.
package local

import (
	"context"

	"kitahub/internal/events"
	"kitahub/internal/events/subscribe"
)

// Publisher hands each event straight to the dispatcher. Delivery is
// synchronous with the publishing call, which gives the local transport
// stronger ordering than the brokered ones; subscribers must not rely on it.
type Publisher struct {
	dispatcher *subscribe.Dispatcher
}

func New(dispatcher *subscribe.Dispatcher) *Publisher {
	return &Publisher{dispatcher: dispatcher}
}

func (p *Publisher) Publish(ctx context.Context, event events.IntegrationEvent) error {
	return p.dispatcher.Dispatch(ctx, event)
}
