package dashboardhandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/dashboard"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *dashboard.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *dashboard.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDashboardRead, h.Perms)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermDashboardRead, h.Perms)).Get("/attendance", h.handleAttendance)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	summary, err := h.Service.Summary(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_summary_failed", "failed to load dashboard", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleAttendance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "year", Reason: "must be a four-digit year"}})
			return
		}
		year = parsed
	}

	series, err := h.Service.Attendance(r.Context(), user.CompanyID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_attendance_failed", "failed to load attendance chart", reqID)
		return
	}
	api.Success(w, map[string]any{"year": year, "months": series}, reqID)
}
