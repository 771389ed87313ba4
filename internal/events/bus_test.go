package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T) DomainEvent {
	t.Helper()
	event, err := NewDomainEvent("child_registered", uuid.NewString(), ContextFamily, nil)
	require.NoError(t, err)
	return event
}

func recordingHandler(name string, calls *[]string) Handler {
	return HandlerFunc(func(context.Context, DomainEvent) error {
		*calls = append(*calls, name)
		return nil
	})
}

func TestBus_DispatchesInPriorityOrder(t *testing.T) {
	bus := NewBus(ContextFamily)
	var calls []string

	bus.Register(recordingHandler("projection", &calls), 50)
	bus.Register(recordingHandler("promotion", &calls), 100)
	bus.Register(recordingHandler("first", &calls), 10)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent(t)))
	assert.Equal(t, []string{"first", "projection", "promotion"}, calls)
}

func TestBus_StableTieBreakByRegistrationOrder(t *testing.T) {
	bus := NewBus(ContextFamily)
	var calls []string

	bus.Register(recordingHandler("a", &calls), 10)
	bus.Register(recordingHandler("b", &calls), 10)
	bus.Register(recordingHandler("c", &calls), 10)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent(t)))
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestBus_FailFastStopsLaterHandlers(t *testing.T) {
	bus := NewBus(ContextFamily)
	var calls []string
	boom := errors.New("pubsub down")

	bus.Register(recordingHandler("before", &calls), 10)
	bus.Register(HandlerFunc(func(context.Context, DomainEvent) error {
		calls = append(calls, "failing")
		return boom
	}), 20)
	bus.Register(recordingHandler("after", &calls), 30)

	err := bus.Publish(context.Background(), newTestEvent(t))
	require.ErrorIs(t, err, boom, "the handler error must propagate verbatim")
	assert.Equal(t, []string{"before", "failing"}, calls, "handlers after the failure must not run")
}

func TestBus_EarlierSideEffectsNotRolledBack(t *testing.T) {
	bus := NewBus(ContextFamily)
	applied := false

	bus.Register(HandlerFunc(func(context.Context, DomainEvent) error {
		applied = true
		return nil
	}), 10)
	bus.Register(HandlerFunc(func(context.Context, DomainEvent) error {
		return errors.New("late failure")
	}), 20)

	require.Error(t, bus.Publish(context.Background(), newTestEvent(t)))
	assert.True(t, applied, "no transactionality: earlier handler effects stay applied")
}

func TestBus_DuplicateRegistrationRunsTwice(t *testing.T) {
	bus := NewBus(ContextFamily)
	var calls []string
	h := recordingHandler("dup", &calls)

	bus.Register(h, 10)
	bus.Register(h, 10)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent(t)))
	assert.Equal(t, []string{"dup", "dup"}, calls)
}

func TestBus_UnhandledTypeSurfacesConfigurationError(t *testing.T) {
	bus := NewBus(ContextFamily)
	bus.Register(HandlerFunc(func(_ context.Context, e DomainEvent) error {
		switch e.Type {
		case "child_registered":
			return nil
		default:
			return ErrUnhandledEventType
		}
	}), 10)

	event, err := NewDomainEvent("never_seen_before", uuid.NewString(), ContextFamily, nil)
	require.NoError(t, err)

	err = bus.Publish(context.Background(), event)
	require.ErrorIs(t, err, ErrUnhandledEventType)
}

func TestBus_NoHandlersIsANoOp(t *testing.T) {
	bus := NewBus(ContextEnrollment)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent(t)))
}
