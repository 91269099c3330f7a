package teishokubihandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"haken/internal/domain/teishokubi"
	"haken/internal/transport/http/api"
	"haken/internal/transport/http/middleware"
	"haken/internal/transport/http/shared"
)

type Handler struct {
	Service *teishokubi.Service
}

func NewHandler(service *teishokubi.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/teishokubi", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/{teishokubiID}", h.handleGet)
		r.Post("/probe", h.handleProbe)
		r.Post("/details", h.handleAddManualDetail)
		r.Delete("/details/{detailID}", h.handleDeleteManualDetail)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, details, err := h.Service.Get(r.Context(), chi.URLParam(r, "teishokubiID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, map[string]any{"record": record, "details": details}, middleware.GetRequestID(r.Context()))
}

type keyRequest struct {
	StaffEmail            string `json:"staffEmail"`
	ClientCorporateNumber string `json:"clientCorporateNumber"`
	OrganizationName      string `json:"organizationName"`
}

func (k keyRequest) key() teishokubi.Key {
	return teishokubi.Key{
		StaffEmail:            k.StaffEmail,
		ClientCorporateNumber: k.ClientCorporateNumber,
		OrganizationName:      k.OrganizationName,
	}
}

func (k keyRequest) valid() bool {
	return k.StaffEmail != "" && k.ClientCorporateNumber != "" && k.OrganizationName != ""
}

type probeRequest struct {
	keyRequest
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

// handleProbe previews the conflict date with a hypothetical assignment;
// nothing is persisted.
func (h *Handler) handleProbe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req probeRequest
	if err := shared.DecodeJSON(r, &req); err != nil || !req.valid() {
		api.Fail(w, http.StatusBadRequest, "bad_request", "key triple is required", reqID)
		return
	}
	start, err := shared.ParseDate(req.StartDate)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "bad_request", "startDate must be YYYY-MM-DD", reqID)
		return
	}
	end, err := shared.ParseDate(req.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "endDate must be YYYY-MM-DD", reqID)
		return
	}

	conflict, err := h.Service.ComputeConflictDate(r.Context(), req.key(), start, endOrNil(end))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"conflictDate": conflict.Format("2006-01-02")}, reqID)
}

type manualDetailRequest struct {
	keyRequest
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

func (h *Handler) handleAddManualDetail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req manualDetailRequest
	if err := shared.DecodeJSON(r, &req); err != nil || !req.valid() {
		api.Fail(w, http.StatusBadRequest, "bad_request", "key triple is required", reqID)
		return
	}
	start, err := shared.ParseDate(req.StartDate)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "bad_request", "startDate must be YYYY-MM-DD", reqID)
		return
	}
	end, err := shared.ParseDate(req.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "endDate must be YYYY-MM-DD", reqID)
		return
	}

	if err := h.Service.AddManualDetail(r.Context(), req.key(), start, endOrNil(end)); err != nil {
		h.writeError(w, r, err)
		return
	}
	record, details, err := h.Service.GetByKey(r.Context(), req.key())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Created(w, map[string]any{"record": record, "details": details}, reqID)
}

func (h *Handler) handleDeleteManualDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "detailID")
	if err := h.Service.RemoveManualDetail(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func endOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, teishokubi.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "teishokubi record not found", reqID)
	case errors.Is(err, teishokubi.ErrEmptyPeriod):
		api.Fail(w, http.StatusUnprocessableEntity, "empty_period", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", reqID)
	}
}
