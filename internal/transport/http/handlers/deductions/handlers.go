package deductionhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/deduction"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Store deduction.StoreAPI
	Perms middleware.PermissionStore
	Audit audit.Recorder
}

func NewHandler(store deduction.StoreAPI, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/deductions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDeductionsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDeductionsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermDeductionsWrite, h.Perms)).Delete("/{deductionID}", h.handleDelete)
	})
}

type deductionPayload struct {
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Value       *decimal.Decimal `json:"value"`
	Description string           `json:"description"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	out, err := h.Store.List(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deductions_list_failed", "failed to list deductions", reqID)
		return
	}
	api.Success(w, out, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload deductionPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("type", payload.Type, "is required")
	v.Enum("type", payload.Type, deduction.Types, "must be fixed or percentage")
	value := v.Amount("value", payload.Value)
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Store.Create(r.Context(), user.CompanyID, deduction.Rule{
		Name:        strings.TrimSpace(payload.Name),
		Type:        strings.ToLower(strings.TrimSpace(payload.Type)),
		Value:       value,
		Description: strings.TrimSpace(payload.Description),
	})
	if err != nil {
		slog.Error("deduction create failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "deduction_create_failed", "failed to create deduction", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionCreate, "deduction", created.ID, reqID, shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit deduction.create failed", "err", err)
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	deductionID := chi.URLParam(r, "deductionID")

	err := h.Store.Delete(r.Context(), user.CompanyID, deductionID)
	if errors.Is(err, deduction.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "deduction not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deduction_delete_failed", "failed to delete deduction", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionDelete, "deduction", deductionID, reqID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit deduction.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
