// Package subscribe routes incoming integration events to the contexts that
// declared interest in them.
package subscribe

import (
	"context"
	"errors"
	"log/slog"

	"kitahub/internal/events"
)

// Subscriber is a receiving context's reaction point for integration events.
//
// SubscribedEvents is advisory documentation paired with a runtime guard: the
// transport does not filter deliveries, so HandleEvent must check membership
// itself and report (false, nil) for types it does not care about, with no
// side effects. It returns (true, nil) when the event was processed.
type Subscriber interface {
	Name() string
	SubscribedEvents() []events.IntegrationType
	HandleEvent(ctx context.Context, event events.IntegrationEvent) (bool, error)
}

// Subscribed is the membership guard subscribers use inside HandleEvent.
func Subscribed(s Subscriber, t events.IntegrationType) bool {
	for _, st := range s.SubscribedEvents() {
		if st == t {
			return true
		}
	}
	return false
}

// Dispatcher fans one incoming integration event out to every registered
// subscriber. Each subscriber decides for itself whether the event is one of
// its subscribed types. A failing subscriber does not stop delivery to the
// others; errors are joined and returned so the transport runner can log or
// nack as its semantics allow.
type Dispatcher struct {
	subscribers []Subscriber
	logger      *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Register adds a subscriber. Like bus handler registration this happens at
// application startup.
func (d *Dispatcher) Register(s Subscriber) {
	d.subscribers = append(d.subscribers, s)
}

// Dispatch delivers the event to all subscribers.
func (d *Dispatcher) Dispatch(ctx context.Context, event events.IntegrationEvent) error {
	var errs []error
	for _, s := range d.subscribers {
		handled, err := s.HandleEvent(ctx, event)
		if err != nil {
			d.logger.Error("integration event handler failed",
				"subscriber", s.Name(),
				"topic", event.Topic(),
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		if handled {
			d.logger.Debug("integration event handled",
				"subscriber", s.Name(),
				"topic", event.Topic(),
			)
		}
	}
	return errors.Join(errs...)
}
