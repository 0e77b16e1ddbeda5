package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"gesclient/internal/client/models"
	clientStore "gesclient/internal/client/store"
	numeroModels "gesclient/internal/numero/models"
	numeroStore "gesclient/internal/numero/store"
	"gesclient/internal/platform/metrics"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/requestcontext"
)

type ClientServiceSuite struct {
	suite.Suite
	ctx     context.Context
	clients *clientStore.InMemory
	numeros *numeroStore.InMemory
	metrics *metrics.Metrics
	service *Service
}

func TestClientServiceSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceSuite))
}

func (s *ClientServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s.clients = clientStore.NewInMemory()
	s.numeros = numeroStore.NewInMemory()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.service = New(s.clients, s.numeros,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *ClientServiceSuite) create(cni string) *ClientDetails {
	details, err := s.service.Create(s.ctx, CreateCommand{Nom: "Sow", Prenom: "Fatou", CNI: cni})
	s.Require().NoError(err)
	return details
}

func (s *ClientServiceSuite) attachNumero(clientID id.ID, cni, phone string) {
	s.Require().NoError(s.numeros.Create(s.ctx, &numeroModels.NumeroClient{
		ID:          id.NewID(),
		PhoneNumber: id.PhoneNumber(phone),
		CNI:         cni,
		Status:      id.NumeroStatusActive,
		ClientID:    clientID,
		CreatedAt:   time.Now(),
	}))
}

func (s *ClientServiceSuite) requireCode(err error, code dErrors.Code, msg string) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected code %s, got %v", code, err)
	if msg != "" {
		s.Equal(msg, dErrors.MessageOf(err))
	}
}

func (s *ClientServiceSuite) TestCreate() {
	s.Run("stores a valid client with request time", func() {
		details := s.create("1000000000001")
		s.Equal("Sow", details.Client.Nom)
		s.Equal(id.CNI("1000000000001"), details.Client.CNI)
		s.Equal(requestcontext.Now(s.ctx), details.Client.CreatedAt)
		s.Empty(details.Numeros)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.EntitiesCreated.WithLabelValues("client")))
	})

	s.Run("duplicate cni is a conflict", func() {
		_, err := s.service.Create(s.ctx, CreateCommand{Nom: "Diop", Prenom: "Moussa", CNI: "1000000000001"})
		s.requireCode(err, dErrors.CodeConflict, "a client with this cni already exists")
	})

	s.Run("cni rules are reported by name", func() {
		_, err := s.service.Create(s.ctx, CreateCommand{Nom: "Diop", Prenom: "Moussa", CNI: "9999999999999"})
		s.requireCode(err, dErrors.CodeValidation, "cni must start with 1 or 2")

		_, err = s.service.Create(s.ctx, CreateCommand{Nom: "Diop", Prenom: "Moussa", CNI: "12345"})
		s.requireCode(err, dErrors.CodeValidation, "cni must contain exactly 13 digits")
	})

	s.Run("short names are rejected after trimming", func() {
		_, err := s.service.Create(s.ctx, CreateCommand{Nom: " D ", Prenom: "Moussa", CNI: "2000000000002"})
		s.requireCode(err, dErrors.CodeValidation, "nom is required and must contain at least 2 characters")

		_, err = s.service.Create(s.ctx, CreateCommand{Nom: "Diop", Prenom: "", CNI: "2000000000002"})
		s.requireCode(err, dErrors.CodeValidation, "prenom is required and must contain at least 2 characters")
	})
}

func (s *ClientServiceSuite) TestGetIsIdempotent() {
	created := s.create("1000000000001")
	s.attachNumero(created.Client.ID, "1000000000001", "771234567")

	first, err := s.service.Get(s.ctx, created.Client.ID)
	s.Require().NoError(err)
	second, err := s.service.Get(s.ctx, created.Client.ID)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Require().Len(first.Numeros, 1)
	s.Equal(id.PhoneNumber("771234567"), first.Numeros[0].PhoneNumber)

	_, err = s.service.Get(s.ctx, id.NewID())
	s.requireCode(err, dErrors.CodeNotFound, "client not found")
}

func (s *ClientServiceSuite) TestListGroupsNumerosByOwner() {
	a := s.create("1000000000001")
	b := s.create("2000000000002")
	s.attachNumero(a.Client.ID, "1000000000001", "771234567")

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)

	byID := map[id.ID]*ClientDetails{}
	for _, d := range list {
		byID[d.Client.ID] = d
	}
	s.Len(byID[a.Client.ID].Numeros, 1)
	s.NotNil(byID[b.Client.ID].Numeros)
	s.Empty(byID[b.Client.ID].Numeros)
}

func (s *ClientServiceSuite) TestUpdate() {
	a := s.create("1000000000001")
	b := s.create("2000000000002")

	s.Run("partial update keeps other fields", func() {
		prenom := "  Awa "
		got, err := s.service.Update(s.ctx, a.Client.ID, models.Patch{Prenom: &prenom})
		s.Require().NoError(err)
		s.Equal("Awa", got.Client.Prenom)
		s.Equal("Sow", got.Client.Nom)
	})

	s.Run("new cni must satisfy the rules", func() {
		bad := "3000000000000"
		_, err := s.service.Update(s.ctx, a.Client.ID, models.Patch{CNI: &bad})
		s.requireCode(err, dErrors.CodeValidation, "cni must start with 1 or 2")
	})

	s.Run("new cni must be unique", func() {
		taken := b.Client.CNI.String()
		_, err := s.service.Update(s.ctx, a.Client.ID, models.Patch{CNI: &taken})
		s.requireCode(err, dErrors.CodeConflict, "a client with this cni already exists")
	})

	s.Run("keeping the same cni is allowed", func() {
		same := a.Client.CNI.String()
		_, err := s.service.Update(s.ctx, a.Client.ID, models.Patch{CNI: &same})
		s.Require().NoError(err)
	})

	s.Run("cni is frozen while numeros are attached", func() {
		s.attachNumero(b.Client.ID, b.Client.CNI.String(), "781234567")
		fresh := "2000000000009"
		_, err := s.service.Update(s.ctx, b.Client.ID, models.Patch{CNI: &fresh})
		s.requireCode(err, dErrors.CodeValidation, "")
	})

	s.Run("unknown id is not found", func() {
		nom := "Ndiaye"
		_, err := s.service.Update(s.ctx, id.NewID(), models.Patch{Nom: &nom})
		s.requireCode(err, dErrors.CodeNotFound, "client not found")
	})
}

func (s *ClientServiceSuite) TestDelete() {
	owner := s.create("1000000000001")
	free := s.create("2000000000002")
	s.attachNumero(owner.Client.ID, "1000000000001", "771234567")

	err := s.service.Delete(s.ctx, owner.Client.ID)
	s.requireCode(err, dErrors.CodeValidation, "client still owns phone numbers; delete them first")

	s.Require().NoError(s.service.Delete(s.ctx, free.Client.ID))
	_, err = s.service.Get(s.ctx, free.Client.ID)
	s.requireCode(err, dErrors.CodeNotFound, "")

	err = s.service.Delete(s.ctx, free.Client.ID)
	s.requireCode(err, dErrors.CodeNotFound, "client not found")
}

type failingStore struct {
	*clientStore.InMemory
	err error
}

func (f failingStore) Update(context.Context, *models.Client) error { return f.err }
func (f failingStore) Delete(context.Context, id.ID) error          { return f.err }

func (s *ClientServiceSuite) TestStoreFailuresOnMutationBecomeValidationErrors() {
	created := s.create("1000000000001")
	svc := New(failingStore{InMemory: s.clients, err: errors.New("write concern timeout")}, s.numeros)

	nom := "Fall"
	_, err := svc.Update(s.ctx, created.Client.ID, models.Patch{Nom: &nom})
	s.requireCode(err, dErrors.CodeValidation, "write concern timeout")

	err = svc.Delete(s.ctx, created.Client.ID)
	s.requireCode(err, dErrors.CodeValidation, "write concern timeout")
}
