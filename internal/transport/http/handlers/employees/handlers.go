package employeehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Store employee.StoreAPI
	Perms middleware.PermissionStore
	Audit audit.Recorder
}

func NewHandler(store employee.StoreAPI, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDelete)
	})
}

type employeePayload struct {
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Position    string           `json:"position"`
	Department  string           `json:"department"`
	PaymentRate string           `json:"paymentRate"`
	BaseSalary  *decimal.Decimal `json:"baseSalary"`
	BankAccount string           `json:"bankAccount"`
	Status      string           `json:"status"`
	StartDate   string           `json:"startDate"`
}

// employee validates the payload and converts it. It reports false when v
// collected issues.
func (p employeePayload) employee(v *shared.Validator) (employee.Employee, bool) {
	v.Required("firstName", p.FirstName, "is required")
	v.Required("lastName", p.LastName, "is required")
	v.Required("paymentRate", p.PaymentRate, "is required")
	v.Enum("paymentRate", p.PaymentRate, employee.PaymentRates, "must be monthly or hourly")
	v.Enum("status", p.Status, []string{employee.StatusActive, employee.StatusInactive}, "must be active or inactive")
	v.Email("email", p.Email)
	salary := v.Amount("baseSalary", p.BaseSalary)

	var start *time.Time
	if strings.TrimSpace(p.StartDate) != "" {
		if parsed, ok := v.Date("startDate", p.StartDate); ok {
			start = &parsed
		}
	}
	if v.HasIssues() {
		return employee.Employee{}, false
	}
	return employee.Employee{
		FirstName:   strings.TrimSpace(p.FirstName),
		LastName:    strings.TrimSpace(p.LastName),
		Email:       strings.TrimSpace(p.Email),
		Phone:       strings.TrimSpace(p.Phone),
		Position:    strings.TrimSpace(p.Position),
		Department:  strings.TrimSpace(p.Department),
		PaymentRate: strings.ToLower(strings.TrimSpace(p.PaymentRate)),
		BaseSalary:  salary,
		BankAccount: strings.TrimSpace(p.BankAccount),
		Status:      strings.ToLower(strings.TrimSpace(p.Status)),
		StartDate:   start,
	}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	filter := employee.Filter{
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
	}
	out, err := h.Store.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		slog.Error("employee list failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", reqID)
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

	var payload employeePayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	emp, valid := payload.employee(v)
	if !valid {
		v.Reject(w, reqID)
		return
	}

	created, err := h.Store.Create(r.Context(), user.CompanyID, emp)
	if err != nil {
		slog.Error("employee create failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionCreate, "employee", created.ID, reqID, shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit employee.create failed", "err", err)
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	emp, err := h.Store.Get(r.Context(), user.CompanyID, chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	next, valid := payload.employee(v)
	if !valid {
		v.Reject(w, reqID)
		return
	}

	before, err := h.Store.Get(r.Context(), user.CompanyID, employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	next.ID = before.ID
	if next.Status == "" {
		next.Status = before.Status
	}

	updated, err := h.Store.Update(r.Context(), user.CompanyID, next)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionUpdate, "employee", updated.ID, reqID, shared.ClientIP(r), before, updated); err != nil {
		slog.Warn("audit employee.update failed", "err", err)
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	err := h.Store.Delete(r.Context(), user.CompanyID, employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionDelete, "employee", employeeID, reqID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit employee.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
