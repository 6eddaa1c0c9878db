// AngelaMos | 2026
// handler.go

package report

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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/stats", h.Stats)
		r.Post("/reports", h.Generate)
		r.Get("/reports", h.List)
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingTenant):
		core.Unauthorized(w, "")
	case errors.Is(err, ErrConductorNotFound):
		core.NotFound(w, "conductor")
	case core.IsAppError(err):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stats, err := h.service.ComputeStats(r.Context(), middleware.GetUserID(r.Context()), StatsParams{
		Conductor: q.Get("conductor"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	generated, err := h.service.Generate(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, generated)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.ListReports(r.Context(), middleware.GetUserID(r.Context()), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToReportResponseList(result.Items),
		result.Page,
		result.Limit,
		result.Total,
	)
}
