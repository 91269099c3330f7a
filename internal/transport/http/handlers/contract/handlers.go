package contracthandler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"haken/internal/auth"
	"haken/internal/domain/applog"
	"haken/internal/domain/contract"
	"haken/internal/domain/document"
	"haken/internal/transport/http/api"
	"haken/internal/transport/http/middleware"
	"haken/internal/transport/http/shared"
)

type Handler struct {
	Service  *contract.Service
	Docs     *document.Composer
	Renderer contract.Renderer
	Audit    *applog.Store
}

func NewHandler(service *contract.Service, docs *document.Composer, renderer contract.Renderer, audit *applog.Store) *Handler {
	return &Handler{Service: service, Docs: docs, Renderer: renderer, Audit: audit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/contracts/client/{contractID}", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/submit", h.handleClientSubmit)
		r.Post("/approve", h.handleClientApprove)
		r.Post("/unapprove", h.handleClientUnapprove)
		r.Post("/issue", h.handleClientIssue)
		r.Post("/quotation", h.handleClientQuotation)
		r.With(middleware.RequireKind(auth.KindClient)).Post("/confirm", h.handleClientConfirm)
		r.With(middleware.RequireKind(auth.KindClient)).Post("/unconfirm", h.handleClientUnconfirm)
		r.Get("/preview", h.handleClientPreview)
		r.Get("/prints", h.handleClientPrints)
		r.Get("/prints/{printID}/download", h.handleClientPrintDownload)
		r.Get("/ledgers/source", h.handleSourceLedger)
		r.Get("/ledgers/destination", h.handleDestinationLedger)
		r.Get("/teishokubi-notice", h.handleTeishokubiNotice)
	})

	r.Route("/contracts/staff/{contractID}", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/submit", h.handleStaffSubmit)
		r.Post("/approve", h.handleStaffApprove)
		r.Post("/unapprove", h.handleStaffUnapprove)
		r.Post("/issue", h.handleStaffIssue)
		r.With(middleware.RequireKind(auth.KindStaff)).Post("/confirm", h.handleStaffConfirm)
		r.With(middleware.RequireKind(auth.KindStaff)).Post("/unconfirm", h.handleStaffUnconfirm)
		r.Get("/preview", h.handleStaffPreview)
		r.Get("/prints", h.handleStaffPrints)
		r.Get("/prints/{printID}/download", h.handleStaffPrintDownload)
	})
}

func (h *Handler) audit(r *http.Request, action, targetType, targetID, detail string) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	h.Audit.Record(r.Context(), action, targetType, targetID, user.UserID, detail)
}

// writeDomainError maps contract-core failures onto transport codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	if ve, ok := contract.AsValidationError(err); ok {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "validation_failed", ve.Error(), ve.Violations, reqID)
		return
	}
	switch {
	case errors.Is(err, contract.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "contract not found", reqID)
	case errors.Is(err, contract.ErrIllegalTransition):
		api.Fail(w, http.StatusConflict, "illegal_transition", err.Error(), reqID)
	case errors.Is(err, contract.ErrNumbering):
		api.Fail(w, http.StatusConflict, "numbering_failed", err.Error(), reqID)
	case errors.Is(err, contract.ErrAgreementRequired):
		api.Fail(w, http.StatusConflict, "agreement_required", err.Error(), reqID)
	case errors.Is(err, contract.ErrNotCounterparty):
		api.Fail(w, http.StatusForbidden, "not_counterparty", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", reqID)
	}
}

func writePDF(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Write(data)
}

// --- client contract ---

func (h *Handler) handleClientSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	if err := h.Service.SubmitClient(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionSubmit, "client_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusPending}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())

	number, err := h.Service.ApproveClient(r.Context(), id, user.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionApprove, "client_contract", id, number)
	api.Success(w, map[string]string{"id": id, "contractNumber": number}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientUnapprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	if err := h.Service.UnapproveClient(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionUnapprove, "client_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusDraft}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())

	prints, err := h.Service.IssueClient(r.Context(), id, user.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionIssue, "client_contract", id, fmt.Sprintf("%d documents", len(prints)))
	api.Success(w, prints, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientQuotation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())

	row, err := h.Service.IssueClientQuotation(r.Context(), id, user.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionIssue, "client_contract", id, "quotation")
	api.Success(w, row, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.ConfirmClient(r.Context(), id, user.Email); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionConfirm, "client_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusConfirmed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientUnconfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.UnconfirmClient(r.Context(), id, user.Email); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionUnconfirm, "client_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusIssued}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientPreview(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.Service.PreviewClient(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePDF(w, name, data)
}

func (h *Handler) handleClientPrints(w http.ResponseWriter, r *http.Request) {
	prints, err := h.Service.ClientPrints(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	api.Success(w, prints, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClientPrintDownload(w http.ResponseWriter, r *http.Request) {
	row, data, err := h.Service.DownloadClientPrint(r.Context(), chi.URLParam(r, "printID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePDF(w, row.FileName, data)
}

// Ledgers render on demand and are not logged: the issue log records only
// counterparty-facing issuance.
func (h *Handler) handleSourceLedger(w http.ResponseWriter, r *http.Request) {
	h.renderDoc(w, r, func(id string) (string, []byte, error) {
		doc, _, err := h.Docs.SourceLedger(r.Context(), id)
		if err != nil {
			return "", nil, err
		}
		data, err := h.Renderer.Render(doc)
		return fmt.Sprintf("source_ledger_%s_%s.pdf", id, time.Now().Format("20060102150405")), data, err
	})
}

func (h *Handler) handleDestinationLedger(w http.ResponseWriter, r *http.Request) {
	h.renderDoc(w, r, func(id string) (string, []byte, error) {
		doc, _, err := h.Docs.DestinationLedger(r.Context(), id)
		if err != nil {
			return "", nil, err
		}
		data, err := h.Renderer.Render(doc)
		return fmt.Sprintf("destination_ledger_%s_%s.pdf", id, time.Now().Format("20060102150405")), data, err
	})
}

func (h *Handler) handleTeishokubiNotice(w http.ResponseWriter, r *http.Request) {
	conflictDate, err := time.Parse("2006-01-02", r.URL.Query().Get("conflictDate"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "conflictDate must be YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	h.renderDoc(w, r, func(id string) (string, []byte, error) {
		doc, _, err := h.Docs.TeishokubiNotice(r.Context(), id, conflictDate)
		if err != nil {
			return "", nil, err
		}
		data, err := h.Renderer.Render(doc)
		return fmt.Sprintf("teishokubi_notice_%s_%s.pdf", id, time.Now().Format("20060102150405")), data, err
	})
}

func (h *Handler) renderDoc(w http.ResponseWriter, r *http.Request, build func(id string) (string, []byte, error)) {
	name, data, err := build(chi.URLParam(r, "contractID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePDF(w, name, data)
}

// --- staff contract ---

func (h *Handler) handleStaffSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	if err := h.Service.SubmitStaff(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionSubmit, "staff_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusPending}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())

	number, err := h.Service.ApproveStaff(r.Context(), id, user.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionApprove, "staff_contract", id, number)
	api.Success(w, map[string]string{"id": id, "contractNumber": number}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffUnapprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	if err := h.Service.UnapproveStaff(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionUnapprove, "staff_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusDraft}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffIssue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())

	prints, err := h.Service.IssueStaff(r.Context(), id, user.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionIssue, "staff_contract", id, fmt.Sprintf("%d documents", len(prints)))
	api.Success(w, prints, middleware.GetRequestID(r.Context()))
}

type staffConfirmRequest struct {
	AgreeToTerms bool `json:"agreeToTerms"`
}

func (h *Handler) handleStaffConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")

	var req staffConfirmRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid request body", middleware.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.ConfirmStaff(r.Context(), id, user.Email, req.AgreeToTerms); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionConfirm, "staff_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusConfirmed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffUnconfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.UnconfirmStaff(r.Context(), id, user.Email); err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.audit(r, applog.ActionUnconfirm, "staff_contract", id, "")
	api.Success(w, map[string]string{"id": id, "status": contract.StatusIssued}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffPreview(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.Service.PreviewStaff(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePDF(w, name, data)
}

func (h *Handler) handleStaffPrints(w http.ResponseWriter, r *http.Request) {
	prints, err := h.Service.StaffPrints(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	api.Success(w, prints, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStaffPrintDownload(w http.ResponseWriter, r *http.Request) {
	row, data, err := h.Service.DownloadStaffPrint(r.Context(), chi.URLParam(r, "printID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePDF(w, row.FileName, data)
}
