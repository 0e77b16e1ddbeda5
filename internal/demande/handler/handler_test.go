package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	logModels "gesclient/internal/auditlog/models"
	"gesclient/internal/demande/handler/mocks"
	"gesclient/internal/demande/models"
	"gesclient/internal/demande/service"
	id "gesclient/pkg/domain"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, svc
}

func sampleDemande(account string) *models.Demande {
	return &models.Demande{
		ID:      id.NewID(),
		Type:    "Reclamation",
		Content: "Facture",
		Status:  "pending",
		Account: account,
		Date:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestFixedSegmentsAreNotIDs(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().List(gomock.Any()).Return([]*models.Demande{sampleDemande("A")}, nil)
	svc.EXPECT().ListJournalizedByAccount(gomock.Any(), "A").Return([]*service.JournalizedDemande{}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/demandes/all"))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/demandes/journalized?account=A"))
	testutil.AssertStatusOK(t, rr)
	env := testutil.UnmarshalEnvelope(t, rr)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListByAccount(t *testing.T) {
	t.Run("missing account is 400", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().ListByAccount(gomock.Any(), "").
			Return(nil, dErrors.New(dErrors.CodeValidation, "account query parameter is required"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/demandes"))
		testutil.AssertFailure(t, rr, http.StatusBadRequest, "account query parameter is required")
	})

	t.Run("empty account is 404", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().ListByAccount(gomock.Any(), "COMPTE404").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "no demande found for this account"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/demandes?account=COMPTE404"))
		testutil.AssertFailure(t, rr, http.StatusNotFound, "no demande found for this account")
	})
}

func TestJournalizedInlinesLogs(t *testing.T) {
	router, svc := newTestRouter(t)
	d := sampleDemande("COMPTE001")
	ref := d.ID
	svc.EXPECT().ListJournalizedByAccount(gomock.Any(), "COMPTE001").Return([]*service.JournalizedDemande{{
		Demande: d,
		Logs:    []*logModels.Log{{ID: id.NewID(), Action: "SEED", Message: "seeded", DemandeID: &ref}},
	}}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/demandes/journalized?account=COMPTE001"))

	testutil.AssertStatusOK(t, rr)
	var data []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(testutil.UnmarshalEnvelope(t, rr).Data, &data))
	require.Len(t, data, 1)
	assert.JSONEq(t, `"COMPTE001"`, string(data[0]["account"]))
	var logs []logModels.Log
	require.NoError(t, json.Unmarshal(data[0]["logs"], &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "SEED", logs[0].Action)
}

func TestCreateAndUpdate(t *testing.T) {
	router, svc := newTestRouter(t)
	d := sampleDemande("COMPTE001")
	svc.EXPECT().Create(gomock.Any(), service.CreateCommand{
		Type: "Reclamation", Content: "Facture", Status: "pending", Account: "COMPTE001",
	}).Return(d, nil)
	svc.EXPECT().Update(gomock.Any(), d.ID, gomock.Any()).Return(d, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/demandes", map[string]string{
		"type": "Reclamation", "content": "Facture", "status": "pending", "account": " COMPTE001 ",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/demandes", map[string]string{
		"type": "Reclamation", "content": "Facture", "status": "pending",
	}))
	testutil.AssertFailure(t, rr, http.StatusBadRequest, "account is required")

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/demandes/"+d.ID.String(),
		map[string]string{"status": "done"}))
	testutil.AssertStatusOK(t, rr)
}

func TestGetAndDelete(t *testing.T) {
	router, svc := newTestRouter(t)
	d := sampleDemande("COMPTE001")
	svc.EXPECT().Get(gomock.Any(), d.ID).Return(d, nil)
	svc.EXPECT().Delete(gomock.Any(), d.ID).Return(nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/demandes/"+d.ID.String()))
	testutil.AssertStatusOK(t, rr)
	got := testutil.DecodeData[models.Demande](t, testutil.UnmarshalEnvelope(t, rr))
	assert.Equal(t, d.ID, got.ID)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/demandes/"+d.ID.String()))
	testutil.AssertStatusOK(t, rr)
}
