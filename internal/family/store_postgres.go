package family

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

// PostgresStore persists child aggregates in PostgreSQL. Guardians travel as
// a jsonb column: they are owned by the aggregate and never queried on their
// own.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, child *Child) error {
	guardians, err := json.Marshal(child.Guardians)
	if err != nil {
		return fmt.Errorf("marshal guardians: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO children (id, tenant_id, first_name, last_name, birth_date, status, guardians, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		child.ID.String(), child.TenantID.String(), child.FirstName, child.LastName,
		child.BirthDate, string(child.Status), guardians, child.CreatedAt, child.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert child: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.ChildID) (*Child, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, first_name, last_name, birth_date, status, guardians, created_at, updated_at
		FROM children WHERE id = $1`, id.String())
	return scanChild(row)
}

func (s *PostgresStore) Update(ctx context.Context, child *Child) error {
	guardians, err := json.Marshal(child.Guardians)
	if err != nil {
		return fmt.Errorf("marshal guardians: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE children
		SET first_name = $2, last_name = $3, birth_date = $4, status = $5, guardians = $6, updated_at = $7
		WHERE id = $1`,
		child.ID.String(), child.FirstName, child.LastName, child.BirthDate,
		string(child.Status), guardians, child.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.ChildID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM children WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID domain.TenantID) ([]*Child, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, first_name, last_name, birth_date, status, guardians, created_at, updated_at
		FROM children WHERE tenant_id = $1 ORDER BY created_at`, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []*Child
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChild(row rowScanner) (*Child, error) {
	var (
		child        Child
		idStr        string
		tenantStr    string
		statusStr    string
		guardiansRaw []byte
	)
	err := row.Scan(&idStr, &tenantStr, &child.FirstName, &child.LastName,
		&child.BirthDate, &statusStr, &guardiansRaw, &child.CreatedAt, &child.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan child: %w", err)
	}

	childID, err := domain.ParseChildID(idStr)
	if err != nil {
		return nil, fmt.Errorf("stored child id: %w", err)
	}
	tenantID, err := domain.ParseTenantID(tenantStr)
	if err != nil {
		return nil, fmt.Errorf("stored tenant id: %w", err)
	}
	child.ID = childID
	child.TenantID = tenantID
	child.Status = ChildStatus(statusStr)
	if len(guardiansRaw) > 0 {
		if err := json.Unmarshal(guardiansRaw, &child.Guardians); err != nil {
			return nil, fmt.Errorf("unmarshal guardians: %w", err)
		}
	}
	return &child, nil
}
