package subscribe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/internal/events"
)

type stubSubscriber struct {
	name    string
	types   []events.IntegrationType
	handled []events.IntegrationEvent
	err     error
}

func (s *stubSubscriber) Name() string                              { return s.name }
func (s *stubSubscriber) SubscribedEvents() []events.IntegrationType { return s.types }

func (s *stubSubscriber) HandleEvent(_ context.Context, event events.IntegrationEvent) (bool, error) {
	if !Subscribed(s, event.Type) {
		return false, nil
	}
	if s.err != nil {
		return false, s.err
	}
	s.handled = append(s.handled, event)
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDispatcher_DeliversToAllSubscribers(t *testing.T) {
	a := &stubSubscriber{name: "a", types: []events.IntegrationType{events.ProgramArchived}}
	b := &stubSubscriber{name: "b", types: []events.IntegrationType{events.ProgramArchived}}

	d := NewDispatcher(testLogger())
	d.Register(a)
	d.Register(b)

	event := events.NewIntegrationEvent(events.ProgramArchived, events.ContextProgramCatalog, events.EntityProgram, "p-1", nil)
	require.NoError(t, d.Dispatch(context.Background(), event))

	assert.Len(t, a.handled, 1)
	assert.Len(t, b.handled, 1)
}

func TestDispatcher_UnsubscribedTypeIsIgnoredWithoutSideEffects(t *testing.T) {
	sub := &stubSubscriber{name: "enrollment", types: []events.IntegrationType{events.ChildDataAnonymized}}
	d := NewDispatcher(testLogger())
	d.Register(sub)

	event := events.NewIntegrationEvent(events.StaffDeactivated, events.ContextIdentity, events.EntityStaffMember, "s-1", nil)
	require.NoError(t, d.Dispatch(context.Background(), event))
	assert.Empty(t, sub.handled)
}

func TestDispatcher_OneFailingSubscriberDoesNotBlockOthers(t *testing.T) {
	boom := errors.New("store unavailable")
	failing := &stubSubscriber{name: "failing", types: []events.IntegrationType{events.ProgramArchived}, err: boom}
	healthy := &stubSubscriber{name: "healthy", types: []events.IntegrationType{events.ProgramArchived}}

	d := NewDispatcher(testLogger())
	d.Register(failing)
	d.Register(healthy)

	event := events.NewIntegrationEvent(events.ProgramArchived, events.ContextProgramCatalog, events.EntityProgram, "p-1", nil)
	err := d.Dispatch(context.Background(), event)
	require.ErrorIs(t, err, boom)
	assert.Len(t, healthy.handled, 1, "delivery continues past a failing subscriber")
}
