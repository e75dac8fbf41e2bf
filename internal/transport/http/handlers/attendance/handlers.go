package attendancehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/attendance"
	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service *attendance.Service, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/{recordID}/checkout", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Delete("/{recordID}", h.handleDelete)
	})
}

type checkInPayload struct {
	EmployeeID string     `json:"employeeId"`
	At         *time.Time `json:"at"`
}

type checkOutPayload struct {
	At *time.Time `json:"at"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	query := r.URL.Query()
	filter := attendance.Filter{EmployeeID: strings.TrimSpace(query.Get("employeeId"))}
	v := shared.NewValidator()
	if raw := query.Get("from"); raw != "" {
		if from, ok := v.Date("from", raw); ok {
			filter.From = &from
		}
	}
	if raw := query.Get("to"); raw != "" {
		if to, ok := v.Date("to", raw); ok {
			filter.To = &to
		}
	}
	if filter.From != nil && filter.To != nil {
		v.DateOrder("from", *filter.From, "to", *filter.To)
	}
	if v.Reject(w, reqID) {
		return
	}

	out, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", reqID)
		return
	}
	api.Success(w, out, reqID)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload checkInPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	if v.Reject(w, reqID) {
		return
	}

	record, err := h.Service.CheckIn(r.Context(), user.CompanyID, strings.TrimSpace(payload.EmployeeID), payload.At)
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		api.Fail(w, http.StatusConflict, "already_checked_in", err.Error(), reqID)
		return
	case err != nil:
		slog.Error("check-in failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "attendance_create_failed", "failed to record check-in", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionCreate, "attendance", record.ID, reqID, shared.ClientIP(r), nil, record); err != nil {
		slog.Warn("audit attendance.create failed", "err", err)
	}
	api.Created(w, record, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	// The body is optional; an empty one checks out now.
	var payload checkOutPayload
	if r.ContentLength != 0 {
		if !shared.DecodeJSON(w, r, &payload, reqID) {
			return
		}
	}

	recordID := chi.URLParam(r, "recordID")
	record, err := h.Service.CheckOut(r.Context(), user.CompanyID, recordID, payload.At)
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", reqID)
		return
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		api.Fail(w, http.StatusConflict, "already_checked_out", err.Error(), reqID)
		return
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "at", Reason: err.Error()}})
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "attendance_update_failed", "failed to record check-out", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionUpdate, "attendance", record.ID, reqID, shared.ClientIP(r), nil, record); err != nil {
		slog.Warn("audit attendance.update failed", "err", err)
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	recordID := chi.URLParam(r, "recordID")

	err := h.Service.Delete(r.Context(), user.CompanyID, recordID)
	if errors.Is(err, attendance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_delete_failed", "failed to delete attendance record", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionDelete, "attendance", recordID, reqID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit attendance.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
