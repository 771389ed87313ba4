package family

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
)

func storedChild(t *testing.T) *Child {
	t.Helper()
	child, err := NewChild(domain.ChildID(uuid.New()), ChildAttrs{
		TenantID:  domain.TenantID(uuid.New()),
		FirstName: "Theo",
		LastName:  "Brandt",
		BirthDate: time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
	}, time.Now())
	require.NoError(t, err)
	return child
}

func TestInMemoryStore_CreateGetRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	child := storedChild(t)

	require.NoError(t, store.Create(context.Background(), child))

	got, err := store.Get(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.FirstName, got.FirstName)
}

func TestInMemoryStore_CreateDuplicateConflicts(t *testing.T) {
	store := NewInMemoryStore()
	child := storedChild(t)

	require.NoError(t, store.Create(context.Background(), child))
	err := store.Create(context.Background(), child)
	require.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), domain.ChildID(uuid.New()))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewInMemoryStore()
	child := storedChild(t)
	require.NoError(t, store.Create(context.Background(), child))

	got, err := store.Get(context.Background(), child.ID)
	require.NoError(t, err)
	got.FirstName = "mutated"

	again, err := store.Get(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Theo", again.FirstName, "store must not expose internal state")
}

func TestInMemoryStore_DeleteMissing(t *testing.T) {
	store := NewInMemoryStore()
	err := store.Delete(context.Background(), domain.ChildID(uuid.New()))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_ListByTenantFilters(t *testing.T) {
	store := NewInMemoryStore()
	a := storedChild(t)
	b := storedChild(t)
	require.NoError(t, store.Create(context.Background(), a))
	require.NoError(t, store.Create(context.Background(), b))

	listed, err := store.ListByTenant(context.Background(), a.TenantID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, a.ID, listed[0].ID)
}
