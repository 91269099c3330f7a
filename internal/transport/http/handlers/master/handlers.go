package masterhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"haken/internal/domain/master"
	"haken/internal/transport/http/api"
	"haken/internal/transport/http/middleware"
	"haken/internal/transport/http/shared"
)

type Handler struct {
	Store *master.Store
}

func NewHandler(store *master.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/masters", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/dropdowns/{category}", h.handleChoices)
		r.Get("/patterns/{patternID}", h.handleGetPattern)
		r.Get("/minimum-wage", h.handleMinimumWage)
		r.Get("/agreements/active", h.handleActiveAgreement)
	})
}

func (h *Handler) handleChoices(w http.ResponseWriter, r *http.Request) {
	choices, err := h.Store.Choices(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, choices, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPattern(r.Context(), chi.URLParam(r, "patternID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

// handleMinimumWage resolves the hourly minimum for a prefecture as of a
// date, defaulting to today. Used by the UI to warn before contract entry.
func (h *Handler) handleMinimumWage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	pref := r.URL.Query().Get("prefecture")
	if pref == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "prefecture is required", reqID)
		return
	}
	effective := shared.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "bad_request", "invalid date", reqID)
			return
		}
		effective = d
	}
	amount, err := h.Store.MinimumWageAt(r.Context(), pref, effective)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, map[string]any{"prefecture": pref, "hourly": amount}, reqID)
}

func (h *Handler) handleActiveAgreement(w http.ResponseWriter, r *http.Request) {
	ag, err := h.Store.LatestActiveAgreement(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, ag, middleware.GetRequestID(r.Context()))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	if errors.Is(err, master.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", reqID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", reqID)
}
