package programcatalog

import (
	"kitahub/internal/events"
	"kitahub/pkg/domain"
)

// Domain event catalog of the program catalog context.
const (
	EventProgramCreated  events.Type = "program_created"
	EventProgramUpdated  events.Type = "program_updated"
	EventProgramArchived events.Type = "program_archived"
)

func NewProgramCreatedEvent(programID domain.ProgramID, payload map[string]any) (events.DomainEvent, error) {
	return newProgramEvent(EventProgramCreated, programID, payload)
}

func NewProgramUpdatedEvent(programID domain.ProgramID, payload map[string]any) (events.DomainEvent, error) {
	return newProgramEvent(EventProgramUpdated, programID, payload)
}

func NewProgramArchivedEvent(programID domain.ProgramID, payload map[string]any) (events.DomainEvent, error) {
	return newProgramEvent(EventProgramArchived, programID, payload)
}

func newProgramEvent(t events.Type, programID domain.ProgramID, payload map[string]any) (events.DomainEvent, error) {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["program_id"] = programID.String()

	aggregateID := ""
	if !programID.IsZero() {
		aggregateID = programID.String()
	}
	return events.NewDomainEvent(t, aggregateID, events.ContextProgramCatalog, merged)
}
