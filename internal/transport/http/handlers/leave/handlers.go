package leavehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/leave"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service *leave.Service, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/{requestID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/{requestID}/approve", h.handleDecide(audit.ActionApprove))
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/{requestID}/reject", h.handleDecide(audit.ActionReject))
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Delete("/{requestID}", h.handleDelete)
	})
}

type requestPayload struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	StartHalf  bool   `json:"startHalf"`
	EndHalf    bool   `json:"endHalf"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	filter := leave.Filter{
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employeeId")),
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
	}
	v := shared.NewValidator()
	v.Enum("status", filter.Status, []string{leave.StatusPending, leave.StatusApproved, leave.StatusRejected}, "must be pending, approved or rejected")
	if v.Reject(w, reqID) {
		return
	}

	out, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, out, reqID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload requestPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Enum("type", payload.Type, leave.Types, "must be one of "+strings.Join(leave.Types, ", "))
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.Submit(r.Context(), user.CompanyID, leave.Request{
		EmployeeID: strings.TrimSpace(payload.EmployeeID),
		Type:       strings.ToLower(strings.TrimSpace(payload.Type)),
		StartDate:  start,
		EndDate:    end,
		StartHalf:  payload.StartHalf,
		EndHalf:    payload.EndHalf,
		Reason:     strings.TrimSpace(payload.Reason),
	})
	switch {
	case errors.Is(err, leave.ErrInvalidRange), errors.Is(err, leave.ErrInvalidHalfDay):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "endDate", Reason: err.Error()}})
		return
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	case err != nil:
		slog.Error("leave submit failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to submit leave request", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionCreate, "leave_request", created.ID, reqID, shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit leave.create failed", "err", err)
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
	req, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "requestID"))
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_get_failed", "failed to load leave request", reqID)
		return
	}
	api.Success(w, req, reqID)
}

func (h *Handler) handleDecide(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		user, ok := middleware.GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
			return
		}
		requestID := chi.URLParam(r, "requestID")

		decide := h.Service.Approve
		if action == audit.ActionReject {
			decide = h.Service.Reject
		}
		decided, err := decide(r.Context(), user.CompanyID, requestID, user.UserID)
		switch {
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
			return
		case errors.Is(err, leave.ErrNotPending):
			api.Fail(w, http.StatusConflict, "leave_not_pending", err.Error(), reqID)
			return
		case err != nil:
			api.Fail(w, http.StatusInternalServerError, "leave_"+action+"_failed", "failed to decide leave request", reqID)
			return
		}

		if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "leave_request", requestID, reqID, shared.ClientIP(r), nil, decided); err != nil {
			slog.Warn("audit leave."+action+" failed", "err", err)
		}
		api.Success(w, decided, reqID)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	requestID := chi.URLParam(r, "requestID")

	err := h.Service.Delete(r.Context(), user.CompanyID, requestID)
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_delete_failed", "failed to delete leave request", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionDelete, "leave_request", requestID, reqID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit leave.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
