package family

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/internal/events"
	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

func TestChildDataAnonymizedEvent_ExplicitIDWinsOverPayload(t *testing.T) {
	realID := domain.ChildID(uuid.New())

	event, err := NewChildDataAnonymizedEvent(realID, map[string]any{
		"child_id": "other",
		"extra":    "data",
	})
	require.NoError(t, err)

	assert.Equal(t, realID.String(), event.Payload["child_id"], "explicit id must override the payload-embedded one")
	assert.Equal(t, "data", event.Payload["extra"], "unrelated payload entries are carried through")
	assert.Equal(t, realID.String(), event.AggregateID)
	assert.Equal(t, events.ContextFamily, event.Source)
}

func TestChildEvents_RejectZeroChildID(t *testing.T) {
	var zero domain.ChildID
	_, err := NewChildRegisteredEvent(zero, nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestChildEvents_DoNotMutateCallerPayload(t *testing.T) {
	payload := map[string]any{"child_id": "other"}
	_, err := NewChildRegisteredEvent(domain.ChildID(uuid.New()), payload)
	require.NoError(t, err)
	assert.Equal(t, "other", payload["child_id"], "the caller's map must stay untouched")
}
