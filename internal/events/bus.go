package events

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrUnhandledEventType is returned by a handler that was dispatched an event
// type it has no case for. Dispatching an event to a handler that does not
// know it is a wiring bug, not a silent ignore: handlers that deliberately
// skip a type return nil instead.
var ErrUnhandledEventType = errors.New("unhandled domain event type")

// Handler reacts to domain events dispatched on a context's bus.
// Returning nil means handled (or deliberately ignored); any error stops
// dispatch for the current event.
type Handler interface {
	Handle(ctx context.Context, event DomainEvent) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event DomainEvent) error {
	return f(ctx, event)
}

type registration struct {
	priority int
	seq      int
	handler  Handler
}

// Bus is the per-context domain event dispatcher. One instance is constructed
// per bounded context at startup and handed to every use case that publishes;
// there is no ambient global lookup.
//
// Dispatch is synchronous and fail-fast: handlers run in ascending priority
// order (ties broken by registration order) and the first error stops the
// remaining handlers and is returned to the publisher verbatim. Side effects
// of handlers that already ran are not rolled back.
type Bus struct {
	source Context

	mu            sync.RWMutex
	registrations []registration
	nextSeq       int
}

// NewBus creates a bus for one bounded context.
func NewBus(source Context) *Bus {
	return &Bus{source: source}
}

// Source returns the bounded context this bus belongs to.
func (b *Bus) Source() Context { return b.source }

// Register adds a handler at the given priority; lower priorities run first.
// Registering the same handler twice is allowed and runs it twice.
// Registration happens at application startup; the lock only keeps concurrent
// wiring safe.
func (b *Bus) Register(h Handler, priority int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registrations = append(b.registrations, registration{
		priority: priority,
		seq:      b.nextSeq,
		handler:  h,
	})
	b.nextSeq++
	sort.SliceStable(b.registrations, func(i, j int) bool {
		if b.registrations[i].priority != b.registrations[j].priority {
			return b.registrations[i].priority < b.registrations[j].priority
		}
		return b.registrations[i].seq < b.registrations[j].seq
	})
}

// Publish dispatches the event to every registered handler in order, blocking
// until all have run or one fails. The first handler error is returned as-is;
// handlers after it are not invoked.
func (b *Bus) Publish(ctx context.Context, event DomainEvent) error {
	b.mu.RLock()
	regs := make([]registration, len(b.registrations))
	copy(regs, b.registrations)
	b.mu.RUnlock()

	for _, reg := range regs {
		if err := reg.handler.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
