//go:build integration

package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gesclient/internal/numero/models"
	"gesclient/internal/numero/store"
	platformmongo "gesclient/internal/platform/mongo"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
	"gesclient/pkg/testutil/containers"
)

type MongoStoreSuite struct {
	suite.Suite
	mongo  *containers.MongoContainer
	dbName string
	store  *store.Mongo
	ctx    context.Context
}

func TestMongoStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func (s *MongoStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.mongo = containers.GetManager().GetMongo(s.T())
}

func (s *MongoStoreSuite) SetupTest() {
	s.dbName = "numero_" + strings.ToLower(id.NewID().String())
	db := s.mongo.Database(s.dbName)
	s.Require().NoError(platformmongo.EnsureIndexes(s.ctx, db))
	s.store = store.NewMongo(db)
}

func (s *MongoStoreSuite) TearDownTest() {
	_ = s.mongo.Drop(s.ctx, s.dbName)
}

func (s *MongoStoreSuite) newNumero(phone, cni string, createdAt time.Time) *models.NumeroClient {
	return &models.NumeroClient{
		ID:          id.NewID(),
		PhoneNumber: id.PhoneNumber(phone),
		CNI:         cni,
		Status:      id.NumeroStatusActive,
		ClientID:    id.NewID(),
		CreatedAt:   createdAt.UTC().Truncate(time.Millisecond),
	}
}

func (s *MongoStoreSuite) TestLookups() {
	n := s.newNumero("771234567", "1000000000001", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, n))

	byPhone, err := s.store.FindByPhoneNumber(s.ctx, n.PhoneNumber)
	s.Require().NoError(err)
	s.Equal(n.ID, byPhone.ID)

	byCNI, err := s.store.FindByCNI(s.ctx, "1000000000001")
	s.Require().NoError(err)
	s.Equal(n.ClientID, byCNI.ClientID)

	owned, err := s.store.ListByClientID(s.ctx, n.ClientID)
	s.Require().NoError(err)
	s.Len(owned, 1)
}

func (s *MongoStoreSuite) TestListNewestFirst() {
	base := time.Now()
	older := s.newNumero("771234567", "1000000000001", base.Add(-time.Hour))
	newer := s.newNumero("781234567", "2000000000002", base)
	s.Require().NoError(s.store.Create(s.ctx, older))
	s.Require().NoError(s.store.Create(s.ctx, newer))

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.ID, all[0].ID)
}

func (s *MongoStoreSuite) TestUniqueIndexBackstop() {
	s.Require().NoError(s.store.Create(s.ctx, s.newNumero("771234567", "1000000000001", time.Now())))

	s.ErrorIs(s.store.Create(s.ctx, s.newNumero("771234567", "2000000000002", time.Now())), sentinel.ErrConflict)
	s.ErrorIs(s.store.Create(s.ctx, s.newNumero("781234567", "1000000000001", time.Now())), sentinel.ErrConflict)
}

func (s *MongoStoreSuite) TestUpdateIntoTakenPhoneConflicts() {
	a := s.newNumero("771234567", "1000000000001", time.Now())
	b := s.newNumero("781234567", "2000000000002", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, a))
	s.Require().NoError(s.store.Create(s.ctx, b))

	b.PhoneNumber = a.PhoneNumber
	s.ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrConflict)
}

func (s *MongoStoreSuite) TestNotFound() {
	_, err := s.store.FindByPhoneNumber(s.ctx, id.PhoneNumber("701234567"))
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, id.NewID()), sentinel.ErrNotFound)
}
