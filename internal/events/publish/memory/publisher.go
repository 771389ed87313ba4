// Package memory provides the recording Publisher double used in tests.
package memory

import (
	"context"
	"sync"

	"kitahub/internal/events"
)

// Publisher records every published event in order. Publishing the same event
// twice records two independent deliveries; no deduplication is performed.
type Publisher struct {
	mu      sync.Mutex
	events  []events.IntegrationEvent
	nextErr error
}

func New() *Publisher {
	return &Publisher{}
}

// Publish appends the event to the record, or fails with the configured error
// if one is armed. The armed error fires exactly once.
func (p *Publisher) Publish(_ context.Context, event events.IntegrationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nextErr != nil {
		err := p.nextErr
		p.nextErr = nil
		return err
	}
	p.events = append(p.events, event)
	return nil
}

// ConfigurePublishError arms the next Publish call to fail with err, letting
// tests exercise transport failure paths deterministically.
func (p *Publisher) ConfigurePublishError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextErr = err
}

// Events returns a copy of the recorded deliveries.
func (p *Publisher) Events() []events.IntegrationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.IntegrationEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Last returns the most recent delivery, if any.
func (p *Publisher) Last() (events.IntegrationEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return events.IntegrationEvent{}, false
	}
	return p.events[len(p.events)-1], true
}

// Reset clears recorded deliveries and any armed error.
func (p *Publisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.nextErr = nil
}
