package benefithandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/benefit"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

// ExpressionValidator compiles eligibility expressions without running them.
type ExpressionValidator interface {
	Validate(expr string) error
}

type Handler struct {
	Store     benefit.StoreAPI
	Evaluator ExpressionValidator
	Perms     middleware.PermissionStore
	Audit     audit.Recorder
}

func NewHandler(store benefit.StoreAPI, evaluator ExpressionValidator, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Store: store, Evaluator: evaluator, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/benefits", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermBenefitsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermBenefitsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermBenefitsWrite, h.Perms)).Delete("/{benefitID}", h.handleDelete)
	})
}

type benefitPayload struct {
	Name        string           `json:"name"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	EmployeeIDs []string         `json:"employeeIds"`
	Eligibility string           `json:"eligibility"`
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
		api.Fail(w, http.StatusInternalServerError, "benefits_list_failed", "failed to list benefits", reqID)
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

	var payload benefitPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	amount := v.Amount("amount", payload.Amount)
	expr := strings.TrimSpace(payload.Eligibility)
	if expr != "" && h.Evaluator != nil {
		if err := h.Evaluator.Validate(expr); err != nil {
			v.Add("eligibility", err.Error())
		}
	}
	ids := make([]string, 0, len(payload.EmployeeIDs))
	for _, id := range payload.EmployeeIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Store.Create(r.Context(), user.CompanyID, benefit.Rule{
		Name:        strings.TrimSpace(payload.Name),
		Amount:      amount,
		Description: strings.TrimSpace(payload.Description),
		EmployeeIDs: ids,
		Eligibility: expr,
	})
	if err != nil {
		slog.Error("benefit create failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "benefit_create_failed", "failed to create benefit", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionCreate, "benefit", created.ID, reqID, shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit benefit.create failed", "err", err)
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
	benefitID := chi.URLParam(r, "benefitID")

	err := h.Store.Delete(r.Context(), user.CompanyID, benefitID)
	if errors.Is(err, benefit.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "benefit not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "benefit_delete_failed", "failed to delete benefit", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionDelete, "benefit", benefitID, reqID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit benefit.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
