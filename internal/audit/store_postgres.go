package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"kitahub/internal/events"
)

// PostgresStore persists the audit trail in an append-only table. Duplicate
// inserts (redeliveries carry a fresh record id, but callers may retry) are
// absorbed with ON CONFLICT DO NOTHING.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO audit_records (id, recorded_at, event_type, source_context, entity_type, entity_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		record.ID, record.RecordedAt, string(record.EventType), string(record.Source),
		string(record.Entity), record.EntityID, payload,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityID string) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recorded_at, event_type, source_context, entity_type, entity_id, payload
		FROM audit_records WHERE entity_id = $1 ORDER BY recorded_at`, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recorded_at, event_type, source_context, entity_type, entity_id, payload
		FROM audit_records ORDER BY recorded_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent audit records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows pgxRows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var (
			record     Record
			idStr      string
			eventType  string
			source     string
			entityType string
			payloadRaw []byte
		)
		err := rows.Scan(&idStr, &record.RecordedAt, &eventType, &source, &entityType, &record.EntityID, &payloadRaw)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("stored audit record id: %w", err)
		}
		record.ID = id
		record.EventType = events.IntegrationType(eventType)
		record.Source = events.Context(source)
		record.Entity = events.EntityType(entityType)
		if len(payloadRaw) > 0 {
			if err := json.Unmarshal(payloadRaw, &record.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal audit payload: %w", err)
			}
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
