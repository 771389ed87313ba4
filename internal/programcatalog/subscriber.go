package programcatalog

import (
	"context"
	"log/slog"
	"time"

	"kitahub/internal/events"
	"kitahub/internal/events/subscribe"
	"kitahub/pkg/domain"
)

// IntegrationSubscriber mirrors participant policies set by the enrollment
// context onto the program projection.
type IntegrationSubscriber struct {
	service *Service
	logger  *slog.Logger
}

func NewIntegrationSubscriber(service *Service, logger *slog.Logger) *IntegrationSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntegrationSubscriber{service: service, logger: logger}
}

func (s *IntegrationSubscriber) Name() string { return "program_catalog" }

func (s *IntegrationSubscriber) SubscribedEvents() []events.IntegrationType {
	return []events.IntegrationType{events.ParticipantPolicySet}
}

func (s *IntegrationSubscriber) HandleEvent(ctx context.Context, event events.IntegrationEvent) (bool, error) {
	if !subscribe.Subscribed(s, event.Type) {
		return false, nil
	}

	programID, err := domain.ParseProgramID(event.EntityID)
	if err != nil {
		return true, err
	}
	policy := policyFromPayload(event.Payload)
	if err := s.service.RecordPolicyProjection(ctx, programID, policy); err != nil {
		return true, err
	}
	s.logger.Info("participant policy projected onto program",
		"program_id", programID.String(),
		"max_absences", policy.MaxAbsences,
	)
	return true, nil
}

// policyFromPayload tolerates missing or oddly typed fields; the projection
// is advisory and a partial policy beats a dropped event.
func policyFromPayload(payload map[string]any) PolicyProjection {
	policy := PolicyProjection{SetAt: time.Now()}
	if v, ok := payload["max_absences"].(float64); ok {
		policy.MaxAbsences = int(v)
	}
	if v, ok := payload["max_absences"].(int); ok {
		policy.MaxAbsences = v
	}
	switch consents := payload["required_consents"].(type) {
	case []string:
		policy.RequiredConsents = append([]string(nil), consents...)
	case []any:
		for _, c := range consents {
			if s, ok := c.(string); ok {
				policy.RequiredConsents = append(policy.RequiredConsents, s)
			}
		}
	}
	if raw, ok := payload["set_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			policy.SetAt = t
		}
	}
	return policy
}
