package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gesclient/internal/numero/models"
	"gesclient/internal/numero/service"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/requestcontext"
)

// Service defines the numero operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*service.NumeroDetails, error)
	List(ctx context.Context) ([]*service.NumeroDetails, error)
	SearchByPhoneNumber(ctx context.Context, raw string) (*service.NumeroDetails, error)
	Get(ctx context.Context, numeroID id.ID) (*service.NumeroDetails, error)
	Update(ctx context.Context, numeroID id.ID, patch models.Patch) (*service.NumeroDetails, error)
	Delete(ctx context.Context, numeroID id.ID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the numero endpoints. /search is registered ahead of
// /{id} so it is never read as an id.
func (h *Handler) Register(r chi.Router) {
	r.Route("/numeros", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/search", h.HandleSearch)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateNumeroRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	details, err := h.service.Create(ctx, req.Command())
	if err != nil {
		h.fail(ctx, w, "create numero failed", err)
		return
	}
	httputil.WriteCreated(w, "phone number created successfully", toNumeroResponse(details))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	details, err := h.service.List(ctx)
	if err != nil {
		h.fail(ctx, w, "list numeros failed", err)
		return
	}
	httputil.WriteSuccess(w, "phone numbers retrieved successfully", toNumeroResponses(details))
}

// HandleSearch handles GET /numeros/search?phoneNumber=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	details, err := h.service.SearchByPhoneNumber(ctx, r.URL.Query().Get("phoneNumber"))
	if err != nil {
		h.fail(ctx, w, "search numero failed", err)
		return
	}
	httputil.WriteSuccess(w, "client found", toNumeroResponse(details))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	numeroID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	details, err := h.service.Get(ctx, numeroID)
	if err != nil {
		h.fail(ctx, w, "get numero failed", err)
		return
	}
	httputil.WriteSuccess(w, "phone number retrieved successfully", toNumeroResponse(details))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	numeroID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateNumeroRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	details, err := h.service.Update(ctx, numeroID, req.Patch())
	if err != nil {
		h.fail(ctx, w, "update numero failed", err)
		return
	}
	httputil.WriteSuccess(w, "phone number updated successfully", toNumeroResponse(details))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	numeroID, err := httputil.PathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, numeroID); err != nil {
		h.fail(ctx, w, "delete numero failed", err)
		return
	}
	httputil.WriteSuccess(w, "phone number deleted successfully", nil)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
