package paymenthandler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/statement"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Service     *payroll.Service
	Perms       middleware.PermissionStore
	Audit       audit.Recorder
	Idempotency middleware.IdempotencyChecker
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore, auditSvc audit.Recorder, idem middleware.IdempotencyChecker) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPaymentsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Post("/preview", h.handlePreview)
		r.With(
			middleware.RequirePermission(auth.PermPaymentsRun, h.Perms),
			middleware.Idempotent(h.Idempotency, "payments.run"),
		).Post("/run", h.handleRun)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/export", h.handleExport)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/{paymentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/{paymentID}/slip", h.handleSlip)
		r.With(middleware.RequirePermission(auth.PermPaymentsWrite, h.Perms)).Delete("/{paymentID}", h.handleDelete)
	})
}

type periodPayload struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (p periodPayload) period(v *shared.Validator) payroll.Period {
	v.Required("period.title", p.Title, "is required")
	start, _ := v.Date("period.startDate", p.StartDate)
	end, _ := v.Date("period.endDate", p.EndDate)
	v.DateOrder("period.startDate", start, "period.endDate", end)
	return payroll.Period{Title: strings.TrimSpace(p.Title), StartDate: start, EndDate: end}
}

type paymentPayload struct {
	EmployeeID string           `json:"employeeId"`
	Period     periodPayload    `json:"period"`
	Hours      *decimal.Decimal `json:"hours"`
}

func (p paymentPayload) request(v *shared.Validator) payroll.Request {
	v.Required("employeeId", p.EmployeeID, "is required")
	if p.Hours != nil && p.Hours.IsNegative() {
		v.Add("hours", "must not be negative")
	}
	return payroll.Request{EmployeeID: strings.TrimSpace(p.EmployeeID), Period: p.Period.period(v), Hours: p.Hours}
}

// failCompute maps the errors Preview and Create can return.
func failCompute(w http.ResponseWriter, err error, op, reqID string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "period", Reason: err.Error()}})
	case payroll.IsRuleError(err):
		api.Fail(w, http.StatusBadRequest, "invalid_rule", err.Error(), reqID)
	default:
		slog.Error("payment "+op+" failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "payment_"+op+"_failed", "failed to compute payment", reqID)
	}
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload paymentPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	req := payload.request(v)
	if v.Reject(w, reqID) {
		return
	}

	payment, err := h.Service.Preview(r.Context(), user.CompanyID, req)
	if err != nil {
		failCompute(w, err, "preview", reqID)
		return
	}
	api.Success(w, payment, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload paymentPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	req := payload.request(v)
	if v.Reject(w, reqID) {
		return
	}

	payment, err := h.Service.Create(r.Context(), user.CompanyID, req)
	if err != nil {
		failCompute(w, err, "create", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionCreate, "payment", payment.ID, reqID, shared.ClientIP(r), nil, payment); err != nil {
		slog.Warn("audit payment.create failed", "err", err)
	}
	api.Created(w, payment, reqID)
}

type runPayload struct {
	Period periodPayload `json:"period"`
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload runPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	period := payload.Period.period(v)
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Service.Run(r.Context(), user.CompanyID, period)
	switch {
	case errors.Is(err, payroll.ErrInvalidPeriod):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "period", Reason: err.Error()}})
		return
	case payroll.IsRuleError(err):
		api.Fail(w, http.StatusBadRequest, "invalid_rule", err.Error(), reqID)
		return
	case err != nil:
		slog.Error("payroll run failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "payment_run_failed", "failed to run payroll", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionRun, "payroll_period", period.Title, reqID, shared.ClientIP(r), nil, result); err != nil {
		slog.Warn("audit payroll.run failed", "err", err)
	}
	api.Created(w, result, reqID)
}

func paymentFilter(r *http.Request) payroll.Filter {
	return payroll.Filter{
		PeriodTitle: strings.TrimSpace(r.URL.Query().Get("periodTitle")),
		EmployeeID:  strings.TrimSpace(r.URL.Query().Get("employeeId")),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	out, err := h.Service.List(r.Context(), user.CompanyID, paymentFilter(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payments_list_failed", "failed to list payments", reqID)
		return
	}
	api.Success(w, out, reqID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	filter := paymentFilter(r)
	payments, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payments_export_failed", "failed to export payments", reqID)
		return
	}

	var buf bytes.Buffer
	if err := payroll.WriteRegister(&buf, payments); err != nil {
		slog.Error("payment register failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "payments_export_failed", "failed to export payments", reqID)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", exportName(filter.PeriodTitle)))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("payment register write failed", "err", err)
	}
}

// exportName turns a period title into a safe file name.
func exportName(title string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		return "payments"
	}
	return "payments-" + name
}

func (h *Handler) loadPayment(w http.ResponseWriter, r *http.Request) (payroll.Payment, bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return payroll.Payment{}, false
	}
	payment, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "paymentID"))
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payment not found", reqID)
		return payroll.Payment{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payment_get_failed", "failed to load payment", reqID)
		return payroll.Payment{}, false
	}
	return payment, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	payment, ok := h.loadPayment(w, r)
	if !ok {
		return
	}
	api.Success(w, payment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSlip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payment, ok := h.loadPayment(w, r)
	if !ok {
		return
	}
	slip := statement.Format(payment, payment.Period)

	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(slip.Text())); err != nil {
			slog.Warn("slip write failed", "err", err)
		}
	case "json":
		api.Success(w, slip, reqID)
	case "pdf":
		var buf bytes.Buffer
		if err := slip.WritePDF(&buf); err != nil {
			slog.Error("slip pdf failed", "paymentId", payment.ID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "payment_slip_failed", "failed to render payment slip", reqID)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=slip-%s-%s.pdf", payment.ID, time.Now().UTC().Format("20060102")))
		if _, err := w.Write(buf.Bytes()); err != nil {
			slog.Warn("slip write failed", "err", err)
		}
	default:
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "format", Reason: "must be text, json or pdf"}})
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	paymentID := chi.URLParam(r, "paymentID")

	err := h.Service.Delete(r.Context(), user.CompanyID, paymentID)
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payment not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payment_delete_failed", "failed to delete payment", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionDelete, "payment", paymentID, reqID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit payment.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
