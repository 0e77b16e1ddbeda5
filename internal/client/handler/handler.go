package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gesclient/internal/client/models"
	"gesclient/internal/client/service"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/requestcontext"
)

// Service defines the client operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*service.ClientDetails, error)
	List(ctx context.Context) ([]*service.ClientDetails, error)
	Get(ctx context.Context, clientID id.ID) (*service.ClientDetails, error)
	Update(ctx context.Context, clientID id.ID, patch models.Patch) (*service.ClientDetails, error)
	Delete(ctx context.Context, clientID id.ID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the client endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	details, err := h.service.Create(ctx, req.Command())
	if err != nil {
		h.fail(ctx, w, "create client failed", err)
		return
	}
	httputil.WriteCreated(w, "client created successfully", toClientResponse(details))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	details, err := h.service.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list clients failed", err)
		return
	}
	httputil.WriteSuccess(w, "clients retrieved successfully", toClientResponses(details))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	details, err := h.service.Get(ctx, clientID)
	if err != nil {
		h.fail(ctx, w, "get client failed", err)
		return
	}
	httputil.WriteSuccess(w, "client retrieved successfully", toClientResponse(details))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	clientID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	details, err := h.service.Update(ctx, clientID, req.Patch())
	if err != nil {
		h.fail(ctx, w, "update client failed", err)
		return
	}
	httputil.WriteSuccess(w, "client updated successfully", toClientResponse(details))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, clientID); err != nil {
		h.fail(ctx, w, "delete client failed", err)
		return
	}
	httputil.WriteSuccess(w, "client deleted successfully", nil)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
