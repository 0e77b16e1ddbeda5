package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	logModels "gesclient/internal/auditlog/models"
	logStore "gesclient/internal/auditlog/store"
	"gesclient/internal/demande/models"
	demandeStore "gesclient/internal/demande/store"
	"gesclient/internal/platform/metrics"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/requestcontext"
)

type DemandeServiceSuite struct {
	suite.Suite
	ctx      context.Context
	demandes *demandeStore.InMemory
	logs     *logStore.InMemory
	service  *Service
}

func TestDemandeServiceSuite(t *testing.T) {
	suite.Run(t, new(DemandeServiceSuite))
}

func (s *DemandeServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s.demandes = demandeStore.NewInMemory()
	s.logs = logStore.NewInMemory()
	s.service = New(s.demandes, s.logs,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
	)
}

func (s *DemandeServiceSuite) create(account string, offset time.Duration) *models.Demande {
	ctx := requestcontext.WithTime(s.ctx, requestcontext.Now(s.ctx).Add(offset))
	d, err := s.service.Create(ctx, CreateCommand{Type: "Reclamation", Content: "Facture", Status: "pending", Account: account})
	s.Require().NoError(err)
	return d
}

func (s *DemandeServiceSuite) attachLog(demandeID id.ID, offset time.Duration) *logModels.Log {
	ref := demandeID
	l := &logModels.Log{
		ID:        id.NewID(),
		Action:    "SEED",
		Message:   "linked",
		Success:   true,
		DemandeID: &ref,
		CreatedAt: requestcontext.Now(s.ctx).Add(offset),
	}
	s.Require().NoError(s.logs.Create(s.ctx, l))
	return l
}

func (s *DemandeServiceSuite) requireCode(err error, code dErrors.Code, msg string) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected code %s, got %v", code, err)
	if msg != "" {
		s.Equal(msg, dErrors.MessageOf(err))
	}
}

func (s *DemandeServiceSuite) TestCreate() {
	d := s.create(" COMPTE001 ", 0)
	s.Equal("COMPTE001", d.Account)
	s.Equal(requestcontext.Now(s.ctx), d.Date)

	_, err := s.service.Create(s.ctx, CreateCommand{Type: "Reclamation", Content: " ", Status: "pending", Account: "A"})
	s.requireCode(err, dErrors.CodeValidation, "content is required")
}

func (s *DemandeServiceSuite) TestListByAccount() {
	older := s.create("COMPTE001", 0)
	newer := s.create("COMPTE001", time.Hour)
	s.create("COMPTE002", 0)

	list, err := s.service.ListByAccount(s.ctx, "COMPTE001")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)
	s.Equal(older.ID, list[1].ID)

	_, err = s.service.ListByAccount(s.ctx, "COMPTE404")
	s.requireCode(err, dErrors.CodeNotFound, "no demande found for this account")

	_, err = s.service.ListByAccount(s.ctx, "")
	s.requireCode(err, dErrors.CodeValidation, "account query parameter is required")
}

func (s *DemandeServiceSuite) TestJournalization() {
	s.Run("only demandes with logs are returned", func() {
		logged := s.create("COMPTE001", 0)
		s.create("COMPTE001", time.Minute)
		first := s.attachLog(logged.ID, 0)
		second := s.attachLog(logged.ID, time.Second)

		journal, err := s.service.ListJournalizedByAccount(s.ctx, "COMPTE001")
		s.Require().NoError(err)
		s.Require().Len(journal, 1)
		s.Equal(logged.ID, journal[0].Demande.ID)
		s.Require().Len(journal[0].Logs, 2)
		s.Equal(second.ID, journal[0].Logs[0].ID)
		s.Equal(first.ID, journal[0].Logs[1].ID)
	})

	s.Run("no logged demande is an empty list while the plain listing succeeds", func() {
		s.create("COMPTE002", 0)

		journal, err := s.service.ListJournalizedByAccount(s.ctx, "COMPTE002")
		s.Require().NoError(err)
		s.NotNil(journal)
		s.Empty(journal)

		plain, err := s.service.ListByAccount(s.ctx, "COMPTE002")
		s.Require().NoError(err)
		s.Len(plain, 1)
	})

	s.Run("unknown account is empty, never not found", func() {
		journal, err := s.service.ListJournalizedByAccount(s.ctx, "COMPTE404")
		s.Require().NoError(err)
		s.Empty(journal)
	})

	s.Run("missing account is a validation error", func() {
		_, err := s.service.ListJournalizedByAccount(s.ctx, "  ")
		s.requireCode(err, dErrors.CodeValidation, "account query parameter is required")
	})
}

func (s *DemandeServiceSuite) TestUpdate() {
	d := s.create("COMPTE001", 0)

	status := "done"
	updated, err := s.service.Update(s.ctx, d.ID, models.Patch{Status: &status})
	s.Require().NoError(err)
	s.Equal("done", updated.Status)
	s.Equal("Facture", updated.Content)

	blank := ""
	_, err = s.service.Update(s.ctx, d.ID, models.Patch{Type: &blank})
	s.requireCode(err, dErrors.CodeValidation, "type is required")

	_, err = s.service.Update(s.ctx, id.NewID(), models.Patch{Status: &status})
	s.requireCode(err, dErrors.CodeNotFound, "demande not found")
}

func (s *DemandeServiceSuite) TestDeleteKeepsLogs() {
	d := s.create("COMPTE001", 0)
	s.attachLog(d.ID, 0)

	s.Require().NoError(s.service.Delete(s.ctx, d.ID))
	kept, err := s.logs.List(s.ctx)
	s.Require().NoError(err)
	s.Len(kept, 1)

	_, err = s.service.Get(s.ctx, d.ID)
	s.requireCode(err, dErrors.CodeNotFound, "demande not found")

	err = s.service.Delete(s.ctx, d.ID)
	s.requireCode(err, dErrors.CodeNotFound, "demande not found")
}
