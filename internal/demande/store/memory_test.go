package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gesclient/internal/demande/models"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type DemandeStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *DemandeStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestDemandeStoreSuite(t *testing.T) {
	suite.Run(t, new(DemandeStoreSuite))
}

func (s *DemandeStoreSuite) newDemande(account string, at time.Time) *models.Demande {
	return &models.Demande{ID: id.NewID(), Type: "creation", Content: "ouverture", Status: "En attente", Account: account, Date: at}
}

func (s *DemandeStoreSuite) TestListByAccountFiltersAndOrders() {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	a1 := s.newDemande("COMPTE001", base)
	a2 := s.newDemande("COMPTE001", base.Add(time.Hour))
	b1 := s.newDemande("COMPTE002", base.Add(2*time.Hour))
	for _, d := range []*models.Demande{a1, a2, b1} {
		s.Require().NoError(s.store.Create(s.ctx, d))
	}

	got, err := s.store.ListByAccount(s.ctx, "COMPTE001")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(a2.ID, got[0].ID)
	s.Equal(a1.ID, got[1].ID)

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(b1.ID, all[0].ID)

	empty, err := s.store.ListByAccount(s.ctx, "UNKNOWN")
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *DemandeStoreSuite) TestUpdateAndDelete() {
	d := s.newDemande("COMPTE001", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, d))

	d.Status = "Traitée"
	s.Require().NoError(s.store.Update(s.ctx, d))
	found, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal("Traitée", found.Status)

	s.Require().NoError(s.store.Delete(s.ctx, d.ID))
	_, err = s.store.FindByID(s.ctx, d.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Delete(s.ctx, d.ID), sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Update(s.ctx, d), sentinel.ErrNotFound)
}
