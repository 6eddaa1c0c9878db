// AngelaMos | 2026
// handler.go

package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

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
	r.Route("/deliveries", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Import)
		r.Put("/", h.UpdateStatus)
		r.Delete("/", h.Delete)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()), ListParams{
		Conductor: q.Get("conductor"),
		Status:    q.Get("status"),
		Type:      q.Get("type"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Tracking:  q.Get("tracking"),
		Page:      atoiOrZero(q.Get("page")),
		Limit:     atoiOrZero(q.Get("limit")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToDeliveryResponseList(result.Items),
		result.Page,
		result.Limit,
		result.Total,
	)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Import(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("%d deliveries created", result.Created)
	if result.Created > 0 {
		core.CreatedWithMessage(w, result, message)
		return
	}
	core.OKWithMessage(w, result, message)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(
		w,
		UpdateStatusResult{Updated: updated},
		fmt.Sprintf("%d deliveries updated", updated),
	)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	trackings := strings.Split(r.URL.Query().Get("trackings"), ",")

	deleted, err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), trackings)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(
		w,
		DeleteResult{Deleted: deleted},
		fmt.Sprintf("%d deliveries deleted", deleted),
	)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
