package assignmenthandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"haken/internal/domain/applog"
	"haken/internal/domain/assignment"
	"haken/internal/domain/contract"
	"haken/internal/transport/http/api"
	"haken/internal/transport/http/middleware"
	"haken/internal/transport/http/shared"
)

type Handler struct {
	Service *assignment.Service
	Audit   *applog.Store
}

func NewHandler(service *assignment.Service, audit *applog.Store) *Handler {
	return &Handler{Service: service, Audit: audit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.handleAssign)
		r.Delete("/{assignmentID}", h.handleUnassign)
	})
	r.With(middleware.RequireAuth).Get("/contracts/client/{contractID}/assignments", h.handleListByClient)
	r.With(middleware.RequireAuth).Get("/contracts/client/{contractID}/assignments/visual", h.handleVisual)
	r.With(middleware.RequireAuth).Get("/contracts/staff/{contractID}/assignments", h.handleListByStaff)
}

type assignRequest struct {
	ClientContractID string `json:"clientContractId"`
	StaffContractID  string `json:"staffContractId"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req assignRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req.ClientContractID == "" || req.StaffContractID == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "clientContractId and staffContractId are required", reqID)
		return
	}

	a, err := h.Service.Assign(r.Context(), req.ClientContractID, req.StaffContractID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.Audit != nil {
		user, _ := middleware.GetUser(r.Context())
		h.Audit.Record(r.Context(), applog.ActionAssign, "contract_assignment", a.ID, user.UserID,
			req.ClientContractID+" <- "+req.StaffContractID)
	}
	api.Created(w, a, reqID)
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assignmentID")
	if err := h.Service.Unassign(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.Audit != nil {
		user, _ := middleware.GetUser(r.Context())
		h.Audit.Record(r.Context(), applog.ActionUnassign, "contract_assignment", id, user.UserID, "")
	}
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListByClient(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListByClientContract(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListByStaff(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListByStaffContract(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleVisual(w http.ResponseWriter, r *http.Request) {
	segments, err := h.Service.Visual(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, segments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	if ve, ok := contract.AsValidationError(err); ok {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "validation_failed", ve.Error(), ve.Violations, reqID)
		return
	}
	switch {
	case errors.Is(err, assignment.ErrNotFound), errors.Is(err, contract.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", reqID)
	case errors.Is(err, assignment.ErrEmptyOverlap):
		api.Fail(w, http.StatusUnprocessableEntity, "empty_overlap", err.Error(), reqID)
	case errors.Is(err, assignment.ErrFrozen):
		api.Fail(w, http.StatusConflict, "contract_frozen", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", reqID)
	}
}
