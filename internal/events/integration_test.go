package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCritical_AnonymizationIsAlwaysCritical(t *testing.T) {
	event := NewIntegrationEvent(ChildDataAnonymized, ContextFamily, EntityChild, uuid.NewString(), nil)

	// Pure and deterministic: repeated calls agree.
	for range 3 {
		assert.True(t, event.Critical())
	}
}

func TestCritical_TotalWithNonCriticalDefault(t *testing.T) {
	cases := []struct {
		eventType IntegrationType
		critical  bool
	}{
		{ChildDataAnonymized, true},
		{ConsentWithdrawn, true},
		{ChildRegistered, false},
		{StaffDeactivated, false},
		{ProgramArchived, false},
		{ParticipantPolicySet, false},
		{EnrollmentWithdrawn, false},
		{IntegrationType("something_unknown"), false},
	}
	for _, tc := range cases {
		event := NewIntegrationEvent(tc.eventType, ContextFamily, EntityChild, "id", nil)
		assert.Equal(t, tc.critical, event.Critical(), "type %s", tc.eventType)
	}
}

func TestTopic_NamingConvention(t *testing.T) {
	event := NewIntegrationEvent(ParticipantPolicySet, ContextEnrollment, EntityParticipantPolicy, "p-1", nil)
	assert.Equal(t, "integration:enrollment:participant_policy_set", event.Topic())
}

func TestIntegrationEvent_WireRoundTrip(t *testing.T) {
	entityID := uuid.NewString()
	event := NewIntegrationEvent(ChildDataAnonymized, ContextFamily, EntityChild, entityID, map[string]any{
		"child_id": entityID,
	})

	data, err := MarshalIntegration(event)
	require.NoError(t, err)

	decoded, err := UnmarshalIntegration(data)
	require.NoError(t, err)
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.Source, decoded.Source)
	assert.Equal(t, event.Entity, decoded.Entity)
	assert.Equal(t, event.EntityID, decoded.EntityID)
	assert.Equal(t, entityID, decoded.Payload["child_id"])
	// Criticality is derived, not transported.
	assert.True(t, decoded.Critical())
}
