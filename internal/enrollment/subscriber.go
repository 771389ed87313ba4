package enrollment

import (
	"context"
	"log/slog"

	"kitahub/internal/events"
	"kitahub/internal/events/subscribe"
	"kitahub/pkg/domain"
)

// IntegrationSubscriber reacts to facts from the family and program catalog
// contexts: anonymized children lose their references here, and archived
// programs lose their active enrollments.
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

func (s *IntegrationSubscriber) Name() string { return "enrollment" }

func (s *IntegrationSubscriber) SubscribedEvents() []events.IntegrationType {
	return []events.IntegrationType{
		events.ChildDataAnonymized,
		events.ProgramArchived,
	}
}

func (s *IntegrationSubscriber) HandleEvent(ctx context.Context, event events.IntegrationEvent) (bool, error) {
	if !subscribe.Subscribed(s, event.Type) {
		return false, nil
	}

	switch event.Type {
	case events.ChildDataAnonymized:
		childID, err := domain.ParseChildID(event.EntityID)
		if err != nil {
			return true, err
		}
		return true, s.service.scrubChildData(ctx, childID)
	case events.ProgramArchived:
		programID, err := domain.ParseProgramID(event.EntityID)
		if err != nil {
			return true, err
		}
		return true, s.service.withdrawProgramEnrollments(ctx, programID)
	}
	return false, nil
}
