package tenant

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
)

func newTenantService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewService(NewInMemoryStore(), logger)
}

func TestCreateTenant_NameIsUniqueCaseInsensitively(t *testing.T) {
	s := newTenantService(t)

	created, err := s.CreateTenant(context.Background(), "Sunshine Daycare")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, created.Status)

	_, err = s.CreateTenant(context.Background(), "sunshine daycare")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestCreateTenant_RejectsEmptyAndOversizedNames(t *testing.T) {
	s := newTenantService(t)

	_, err := s.CreateTenant(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	_, err = s.CreateTenant(context.Background(), string(long))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestTenantLifecycle_DeactivateAndReactivate(t *testing.T) {
	s := newTenantService(t)
	created, err := s.CreateTenant(context.Background(), "Little Oaks")
	require.NoError(t, err)

	deactivated, err := s.DeactivateTenant(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive())

	_, err = s.DeactivateTenant(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	reactivated, err := s.ReactivateTenant(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive())
}

func TestGetTenant_UnknownIsNotFound(t *testing.T) {
	s := newTenantService(t)

	_, err := s.GetTenant(context.Background(), domain.TenantID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
