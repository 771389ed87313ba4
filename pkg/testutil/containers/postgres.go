//go:build integration

// Package containers starts throwaway broker and database instances for
// integration tests. Everything here is behind the integration build tag;
// unit tests never pull container dependencies.
package containers

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema is everything the postgres stores need. Applied once per container.
const schema = `
CREATE TABLE IF NOT EXISTS children (
	id          UUID PRIMARY KEY,
	tenant_id   UUID NOT NULL,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	birth_date  TIMESTAMPTZ NOT NULL,
	status      TEXT NOT NULL,
	guardians   JSONB NOT NULL DEFAULT '[]',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS children_tenant_idx ON children (tenant_id);

CREATE TABLE IF NOT EXISTS audit_records (
	id             UUID PRIMARY KEY,
	recorded_at    TIMESTAMPTZ NOT NULL,
	event_type     TEXT NOT NULL,
	source_context TEXT NOT NULL,
	entity_type    TEXT NOT NULL,
	entity_id      TEXT NOT NULL,
	payload        JSONB
);
CREATE INDEX IF NOT EXISTS audit_records_entity_idx ON audit_records (entity_id);
`

// PostgresContainer wraps a testcontainers Postgres instance with a ready
// pgx pool and the schema applied.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	Pool      *pgxpool.Pool
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("kitahub_test"),
		tcpostgres.WithUsername("kitahub"),
		tcpostgres.WithPassword("kitahub"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, Pool: pool}
}

// TruncateTables empties the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for _, table := range tables {
		if _, err := p.Pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}
