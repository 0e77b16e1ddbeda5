package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gesclient/internal/demande/models"
	"gesclient/internal/demande/service"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/requestcontext"
)

// Service defines the demande operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Demande, error)
	List(ctx context.Context) ([]*models.Demande, error)
	ListByAccount(ctx context.Context, account string) ([]*models.Demande, error)
	ListJournalizedByAccount(ctx context.Context, account string) ([]*service.JournalizedDemande, error)
	Get(ctx context.Context, demandeID id.ID) (*models.Demande, error)
	Update(ctx context.Context, demandeID id.ID, patch models.Patch) (*models.Demande, error)
	Delete(ctx context.Context, demandeID id.ID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the demande endpoints. The fixed segments /all and
// /journalized come before /{id}.
func (h *Handler) Register(r chi.Router) {
	r.Route("/demandes", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleListByAccount)
		r.Get("/all", h.HandleList)
		r.Get("/journalized", h.HandleListJournalized)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateDemandeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	demande, err := h.service.Create(ctx, req.Command())
	if err != nil {
		h.fail(ctx, w, "create demande failed", err)
		return
	}
	httputil.WriteCreated(w, "demande created successfully", demande)
}

// HandleListByAccount handles GET /demandes?account=.
func (h *Handler) HandleListByAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	demandes, err := h.service.ListByAccount(ctx, r.URL.Query().Get("account"))
	if err != nil {
		h.fail(ctx, w, "list demandes by account failed", err)
		return
	}
	httputil.WriteSuccess(w, "demandes retrieved successfully", demandes)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	demandes, err := h.service.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list demandes failed", err)
		return
	}
	httputil.WriteSuccess(w, "demandes retrieved successfully", demandes)
}

// HandleListJournalized handles GET /demandes/journalized?account=.
func (h *Handler) HandleListJournalized(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.service.ListJournalizedByAccount(ctx, r.URL.Query().Get("account"))
	if err != nil {
		h.fail(ctx, w, "list journalized demandes failed", err)
		return
	}
	httputil.WriteSuccess(w, "journalized demandes retrieved successfully", toJournalizedResponses(entries))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	demandeID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	demande, err := h.service.Get(ctx, demandeID)
	if err != nil {
		h.fail(ctx, w, "get demande failed", err)
		return
	}
	httputil.WriteSuccess(w, "demande retrieved successfully", demande)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	demandeID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateDemandeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	demande, err := h.service.Update(ctx, demandeID, req.Patch())
	if err != nil {
		h.fail(ctx, w, "update demande failed", err)
		return
	}
	httputil.WriteSuccess(w, "demande updated successfully", demande)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	demandeID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, demandeID); err != nil {
		h.fail(ctx, w, "delete demande failed", err)
		return
	}
	httputil.WriteSuccess(w, "demande deleted successfully", nil)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
