package staffhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"haken/internal/domain/staff"
	"haken/internal/transport/http/api"
	"haken/internal/transport/http/middleware"
)

type Handler struct {
	Store *staff.Store
}

func NewHandler(store *staff.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/{staffID}", h.handleGet)
		r.Get("/{staffID}/international", h.handleGetInternational)
		r.Get("/{staffID}/insurance", h.handleGetInsurance)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.GetByID(r.Context(), chi.URLParam(r, "staffID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, st, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetInternational(w http.ResponseWriter, r *http.Request) {
	intl, err := h.Store.GetInternational(r.Context(), chi.URLParam(r, "staffID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, intl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetInsurance(w http.ResponseWriter, r *http.Request) {
	ins, err := h.Store.GetInsurance(r.Context(), chi.URLParam(r, "staffID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, ins, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "staff not found", reqID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", reqID)
}
