package clienthandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"haken/internal/auth"
	"haken/internal/domain/client"
	"haken/internal/transport/http/api"
	"haken/internal/transport/http/middleware"
	"haken/internal/transport/http/shared"
)

const tokenTTL = 12 * time.Hour

type Handler struct {
	Store     *client.Store
	JWTSecret string
}

func NewHandler(store *client.Store, jwtSecret string) *Handler {
	return &Handler{Store: store, JWTSecret: jwtSecret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/client/login", h.handleLogin)

	r.Route("/clients", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/{clientID}", h.handleGet)
		r.Get("/{clientID}/departments", h.handleListDepartments)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin authenticates a counterparty account and issues a
// client-kind token used for one-click confirmation.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req loginRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "email and password are required", reqID)
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		// Same answer for unknown account and wrong password.
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Kind:   auth.KindClient,
	}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "token generation failed", reqID)
		return
	}
	api.Success(w, map[string]string{"token": token, "clientId": user.ClientID}, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, clients, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetByID(r.Context(), chi.URLParam(r, "clientID"))
	if errors.Is(err, client.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "client not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.Store.ListDepartments(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, deps, middleware.GetRequestID(r.Context()))
}
