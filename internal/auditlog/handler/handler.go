package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gesclient/internal/auditlog/models"
	"gesclient/internal/auditlog/service"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/requestcontext"
)

// Service defines the log operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Log, error)
	List(ctx context.Context) ([]*models.Log, error)
	Get(ctx context.Context, logID id.ID) (*models.Log, error)
	Update(ctx context.Context, logID id.ID, patch models.Patch) (*models.Log, error)
	Delete(ctx context.Context, logID id.ID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/logs", func(r chi.Router) {
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

	req, ok := httputil.DecodeAndPrepare[CreateLogRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	l, err := h.service.Create(ctx, req.Command())
	if err != nil {
		h.fail(ctx, w, "create log failed", err)
		return
	}
	httputil.WriteCreated(w, "log created successfully", l)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logs, err := h.service.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list logs failed", err)
		return
	}
	httputil.WriteSuccess(w, "logs retrieved successfully", logs)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	l, err := h.service.Get(ctx, logID)
	if err != nil {
		h.fail(ctx, w, "get log failed", err)
		return
	}
	httputil.WriteSuccess(w, "log retrieved successfully", l)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	logID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateLogRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	l, err := h.service.Update(ctx, logID, req.Patch())
	if err != nil {
		h.fail(ctx, w, "update log failed", err)
		return
	}
	httputil.WriteSuccess(w, "log updated successfully", l)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, logID); err != nil {
		h.fail(ctx, w, "delete log failed", err)
		return
	}
	httputil.WriteSuccess(w, "log deleted successfully", nil)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
