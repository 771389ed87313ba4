package enrollment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/internal/events"
	"kitahub/pkg/domain"
)

func TestSubscriber_ProgramArchivedWithdrawsActiveEnrollments(t *testing.T) {
	f := newEnrollmentFixture(t)
	programID := domain.ProgramID(uuid.New())

	attrs := validEnrollAttrs()
	attrs.ProgramID = programID
	first, err := f.service.EnrollChild(context.Background(), attrs)
	require.NoError(t, err)

	other := validEnrollAttrs()
	other.ProgramID = programID
	second, err := f.service.EnrollChild(context.Background(), other)
	require.NoError(t, err)

	sub := NewIntegrationSubscriber(f.service, nil)
	event := events.NewIntegrationEvent(
		events.ProgramArchived, events.ContextProgramCatalog,
		events.EntityProgram, programID.String(), nil,
	)

	handled, err := sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)

	for _, id := range []domain.EnrollmentID{first.ID, second.ID} {
		stored, err := f.store.GetEnrollment(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, EnrollmentStatusWithdrawn, stored.Status)
	}

	// Each cascade withdrawal is promoted like a direct one.
	published := f.double.Events()
	require.Len(t, published, 2)
	for _, ev := range published {
		assert.Equal(t, events.EnrollmentWithdrawn, ev.Type)
	}

	// Second delivery finds nothing active and is a no-op.
	handled, err = sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Len(t, f.double.Events(), 2)
}

func TestSubscriber_ChildDataAnonymizedScrubsReferences(t *testing.T) {
	f := newEnrollmentFixture(t)
	childID := domain.ChildID(uuid.New())

	attrs := validEnrollAttrs()
	attrs.ChildID = childID
	enrollment, err := f.service.EnrollChild(context.Background(), attrs)
	require.NoError(t, err)

	consent, err := f.service.GrantConsent(context.Background(), ConsentAttrs{
		TenantID: attrs.TenantID,
		ChildID:  childID,
		Purpose:  PurposePhoto,
	})
	require.NoError(t, err)

	sub := NewIntegrationSubscriber(f.service, nil)
	event := events.NewIntegrationEvent(
		events.ChildDataAnonymized, events.ContextFamily,
		events.EntityChild, childID.String(), nil,
	)

	handled, err := sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)

	storedEnrollment, err := f.store.GetEnrollment(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.True(t, storedEnrollment.ChildID.IsZero())
	assert.Equal(t, EnrollmentStatusActive, storedEnrollment.Status, "scrub does not withdraw")

	storedConsent, err := f.store.GetConsent(context.Background(), consent.ID)
	require.NoError(t, err)
	assert.True(t, storedConsent.ChildID.IsZero())

	// Scrub is a reaction, not a new fact: nothing is promoted.
	assert.Empty(t, f.double.Events())

	// Idempotent: a redelivery matches no records by the child id anymore.
	handled, err = sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestSubscriber_IgnoresUnsubscribedTypes(t *testing.T) {
	f := newEnrollmentFixture(t)
	sub := NewIntegrationSubscriber(f.service, nil)

	event := events.NewIntegrationEvent(
		events.StaffDeactivated, events.ContextIdentity,
		events.EntityStaffMember, uuid.NewString(), nil,
	)

	handled, err := sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, handled)
}
