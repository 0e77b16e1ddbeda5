package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clientModels "gesclient/internal/client/models"
	"gesclient/internal/numero/handler/mocks"
	"gesclient/internal/numero/models"
	"gesclient/internal/numero/service"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type NumeroHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestNumeroHandlerSuite(t *testing.T) {
	suite.Run(t, new(NumeroHandlerSuite))
}

func (s *NumeroHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func sampleNumero() *service.NumeroDetails {
	owner := &clientModels.Client{ID: id.NewID(), Nom: "Sow", Prenom: "Fatou", CNI: "1000000000001"}
	return &service.NumeroDetails{
		Numero: &models.NumeroClient{
			ID:          id.NewID(),
			PhoneNumber: "771234567",
			CNI:         "1000000000001",
			Status:      id.NumeroStatusActive,
			ClientID:    owner.ID,
		},
		Client: owner,
	}
}

func (s *NumeroHandlerSuite) TestCreate() {
	s.Run("required fields are checked before the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/numeros",
			map[string]string{"phoneNumber": "771234567", "status": "Active"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFailure(s.T(), rr, http.StatusBadRequest, "cni is required")
	})

	s.Run("created numero embeds its client", func() {
		details := sampleNumero()
		s.service.EXPECT().Create(gomock.Any(), service.CreateCommand{
			PhoneNumber: "+221771234567", CNI: "1000000000001", Status: "Active",
		}).Return(details, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/numeros",
			map[string]string{"phoneNumber": "+221771234567", "cni": "1000000000001", "status": "Active"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		data := testutil.DecodeData[NumeroResponse](s.T(), testutil.UnmarshalEnvelope(s.T(), rr))
		s.Equal("771234567", data.PhoneNumber)
		s.Equal("Active", data.Status)
		s.Require().NotNil(data.Client)
		s.Equal(details.Client.ID, data.Client.ID)
	})

	s.Run("unknown cni owner is 404", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "no client found with this cni"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/numeros",
			map[string]string{"phoneNumber": "781234567", "cni": "9999999999999", "status": "Active"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFailure(s.T(), rr, http.StatusNotFound, "no client found with this cni")
	})
}

func (s *NumeroHandlerSuite) TestSearchIsNotAnID() {
	details := sampleNumero()
	s.service.EXPECT().SearchByPhoneNumber(gomock.Any(), "+221771234567").Return(details, nil)

	rr := testutil.DoRequest(s.router,
		testutil.NewRequest(s.T(), http.MethodGet, "/numeros/search?phoneNumber=%2B221771234567"))

	testutil.AssertStatusOK(s.T(), rr)
	data := testutil.DecodeData[NumeroResponse](s.T(), testutil.UnmarshalEnvelope(s.T(), rr))
	s.Equal(details.Numero.ID.String(), data.ID)
}

func (s *NumeroHandlerSuite) TestSearchMiss() {
	s.service.EXPECT().SearchByPhoneNumber(gomock.Any(), "781234567").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no client found with this phone number"))

	rr := testutil.DoRequest(s.router,
		testutil.NewRequest(s.T(), http.MethodGet, "/numeros/search?phoneNumber=781234567"))
	testutil.AssertFailure(s.T(), rr, http.StatusNotFound, "no client found with this phone number")
}

func (s *NumeroHandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any()).Return([]*service.NumeroDetails{sampleNumero(), sampleNumero()}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/numeros"))

	testutil.AssertStatusOK(s.T(), rr)
	data := testutil.DecodeData[[]NumeroResponse](s.T(), testutil.UnmarshalEnvelope(s.T(), rr))
	s.Len(data, 2)
}

func (s *NumeroHandlerSuite) TestUpdateAndDelete() {
	details := sampleNumero()
	status := "Inactive"
	s.service.EXPECT().Update(gomock.Any(), details.Numero.ID, models.Patch{Status: &status}).Return(details, nil)
	s.service.EXPECT().Delete(gomock.Any(), details.Numero.ID).
		Return(dErrors.New(dErrors.CodeNotFound, "numero not found"))

	path := "/numeros/" + details.Numero.ID.String()
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, path, map[string]string{"status": "Inactive"}))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, path))
	testutil.AssertFailure(s.T(), rr, http.StatusNotFound, "numero not found")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/numeros/123"))
	testutil.AssertFailure(s.T(), rr, http.StatusBadRequest, "id must be a 24-character hex identifier")
}
