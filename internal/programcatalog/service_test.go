package programcatalog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/internal/events"
	"kitahub/internal/events/publish"
	"kitahub/internal/events/publish/memory"
	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

type catalogFixture struct {
	service *Service
	store   *InMemoryStore
	double  *memory.Publisher
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	store := NewInMemoryStore()
	double := memory.New()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	bus := events.NewBus(events.ContextProgramCatalog)
	bus.Register(NewPromotionHandler(publish.New(double, logger, nil)), PromotionPriority)

	return &catalogFixture{
		service: NewService(store, bus, logger),
		store:   store,
		double:  double,
	}
}

func validProgramAttrs() ProgramAttrs {
	return ProgramAttrs{
		TenantID:     domain.TenantID(uuid.New()),
		Name:         "Forest Group",
		Capacity:     18,
		AgeMinMonths: 12,
		AgeMaxMonths: 36,
	}
}

func TestCreateProgram_PersistsWithoutPromotion(t *testing.T) {
	f := newCatalogFixture(t)

	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.Equal(t, ProgramStatusOpen, program.Status)

	// program_created stays inside the context.
	assert.Empty(t, f.double.Events())
}

func TestCreateProgram_ValidationErrorsListEveryViolation(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.service.CreateProgram(context.Background(), ProgramAttrs{AgeMinMonths: 10, AgeMaxMonths: 5})
	require.Error(t, err)

	var verrs dErrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4, "tenant_id, name, capacity and age_range all fail")
}

func TestArchiveProgram_PromotesProgramArchived(t *testing.T) {
	f := newCatalogFixture(t)
	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)

	archived, err := f.service.ArchiveProgram(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, ProgramStatusArchived, archived.Status)

	published := f.double.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.ProgramArchived, published[0].Type)
	assert.Equal(t, events.EntityProgram, published[0].Entity)
	assert.Equal(t, program.ID.String(), published[0].EntityID)
	assert.False(t, published[0].Critical())
}

func TestArchiveProgram_TwiceIsAConflict(t *testing.T) {
	f := newCatalogFixture(t)
	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)
	_, err = f.service.ArchiveProgram(context.Background(), program.ID)
	require.NoError(t, err)

	_, err = f.service.ArchiveProgram(context.Background(), program.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestUpdateProgram_ArchivedIsRejected(t *testing.T) {
	f := newCatalogFixture(t)
	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)
	_, err = f.service.ArchiveProgram(context.Background(), program.ID)
	require.NoError(t, err)

	_, err = f.service.UpdateProgram(context.Background(), program.ID, validProgramAttrs())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSubscriber_AppliesParticipantPolicyProjection(t *testing.T) {
	f := newCatalogFixture(t)
	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)

	sub := NewIntegrationSubscriber(f.service, nil)
	setAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	event := events.NewIntegrationEvent(
		events.ParticipantPolicySet, events.ContextEnrollment,
		events.EntityParticipantPolicy, program.ID.String(),
		map[string]any{
			"max_absences":      float64(5),
			"required_consents": []any{"photo", "outings"},
			"set_at":            setAt.Format(time.RFC3339),
		},
	)

	handled, err := sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)

	stored, err := f.store.Get(context.Background(), program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Policy)
	assert.Equal(t, 5, stored.Policy.MaxAbsences)
	assert.Equal(t, []string{"photo", "outings"}, stored.Policy.RequiredConsents)
	assert.True(t, setAt.Equal(stored.Policy.SetAt))
}

func TestSubscriber_IgnoresUnsubscribedTypes(t *testing.T) {
	f := newCatalogFixture(t)
	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)

	sub := NewIntegrationSubscriber(f.service, nil)
	event := events.NewIntegrationEvent(
		events.ChildDataAnonymized, events.ContextFamily,
		events.EntityChild, uuid.NewString(), nil,
	)

	handled, err := sub.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, handled)

	stored, err := f.store.Get(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Policy, "ignored events leave no side effects")
}

func TestSubscriber_ProjectionIsIdempotent(t *testing.T) {
	f := newCatalogFixture(t)
	program, err := f.service.CreateProgram(context.Background(), validProgramAttrs())
	require.NoError(t, err)

	sub := NewIntegrationSubscriber(f.service, nil)
	event := events.NewIntegrationEvent(
		events.ParticipantPolicySet, events.ContextEnrollment,
		events.EntityParticipantPolicy, program.ID.String(),
		map[string]any{"max_absences": float64(3)},
	)

	for i := 0; i < 2; i++ {
		handled, err := sub.HandleEvent(context.Background(), event)
		require.NoError(t, err)
		require.True(t, handled)
	}

	stored, err := f.store.Get(context.Background(), program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Policy)
	assert.Equal(t, 3, stored.Policy.MaxAbsences)
}
