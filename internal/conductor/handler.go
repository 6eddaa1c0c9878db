// AngelaMos | 2026
// handler.go

package conductor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/conductors", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/", h.Deactivate)
		r.Get("/{conductorID}", h.Get)
		r.Put("/{conductorID}", h.Update)
		r.Delete("/{conductorID}", h.Deactivate)
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingTenant):
		core.Unauthorized(w, "")
	case errors.Is(err, ErrNameTooShort):
		core.BadRequest(w, err.Error())
	case errors.Is(err, ErrNameTaken):
		core.Conflict(w, err.Error())
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "conductor")
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	conductors, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToConductorResponseList(conductors))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConductorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.CreatedWithMessage(w, ToConductorResponse(c), "conductor registered")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "conductorID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToConductorResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateConductorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "conductorID"),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToConductorResponse(c))
}

// Deactivate serves both DELETE /conductors?id= and DELETE /conductors/{id}.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conductorID")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		core.BadRequest(w, "conductor id is required")
		return
	}

	cascade := false
	if v := r.URL.Query().Get("deleteDeliveries"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			core.BadRequest(w, "deleteDeliveries must be true or false")
			return
		}
		cascade = parsed
	}

	deleted, err := h.service.Deactivate(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		cascade,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, DeactivateResponse{
		ID:                id,
		DeliveriesDeleted: deleted,
	}, "conductor removed")
}
