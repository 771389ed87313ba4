//go:build integration

package family_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"kitahub/internal/family"
	"kitahub/pkg/domain"
	"kitahub/pkg/platform/sentinel"
	"kitahub/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *family.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = family.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "children"))
}

func (s *PostgresStoreSuite) newChild() *family.Child {
	child, err := family.NewChild(domain.ChildID(uuid.New()), family.ChildAttrs{
		TenantID:  domain.TenantID(uuid.New()),
		FirstName: "Mila",
		LastName:  "Novak",
		BirthDate: time.Date(2021, 4, 12, 0, 0, 0, 0, time.UTC),
	}, time.Now())
	s.Require().NoError(err)
	return child
}

func (s *PostgresStoreSuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	child := s.newChild()

	s.Require().NoError(s.store.Create(ctx, child))

	stored, err := s.store.Get(ctx, child.ID)
	s.Require().NoError(err)
	s.Equal(child.FirstName, stored.FirstName)
	s.Equal(child.TenantID, stored.TenantID)
	s.Equal(family.ChildStatusActive, stored.Status)
}

func (s *PostgresStoreSuite) TestCreateDuplicateIsConflict() {
	ctx := context.Background()
	child := s.newChild()

	s.Require().NoError(s.store.Create(ctx, child))
	s.Require().ErrorIs(s.store.Create(ctx, child), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Get(context.Background(), domain.ChildID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdatePersistsGuardiansAndStatus() {
	ctx := context.Background()
	child := s.newChild()
	s.Require().NoError(s.store.Create(ctx, child))

	s.Require().NoError(child.LinkGuardian(family.Guardian{
		ID:           domain.GuardianID(uuid.New()),
		FullName:     "Ana Novak",
		Relationship: "mother",
	}, time.Now()))
	child.ApplyAnonymization(time.Now())
	s.Require().NoError(s.store.Update(ctx, child))

	stored, err := s.store.Get(ctx, child.ID)
	s.Require().NoError(err)
	s.Equal(family.ChildStatusAnonymized, stored.Status)
	s.Empty(stored.Guardians, "anonymization blanks guardians before the update")
}

func (s *PostgresStoreSuite) TestListByTenantScopesRows() {
	ctx := context.Background()
	first := s.newChild()
	second := s.newChild()
	s.Require().NoError(s.store.Create(ctx, first))
	s.Require().NoError(s.store.Create(ctx, second))

	listed, err := s.store.ListByTenant(ctx, first.TenantID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(first.ID, listed[0].ID)
}
