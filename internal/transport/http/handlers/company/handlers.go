package companyhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/company"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

// SessionIssuer re-issues the caller's token once they own a company.
type SessionIssuer interface {
	GetUser(ctx context.Context, userID string) (auth.User, error)
	Issue(user auth.User, membership auth.Membership) (auth.Session, error)
}

type Handler struct {
	Service  *company.Service
	Sessions SessionIssuer
	Perms    middleware.PermissionStore
	Audit    audit.Recorder
}

func NewHandler(service *company.Service, sessions SessionIssuer, perms middleware.PermissionStore, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Sessions: sessions, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/company", func(r chi.Router) {
		r.With(middleware.RequireUser).Post("/", h.handleSetup)
		r.With(middleware.RequirePermission(auth.PermCompanyRead, h.Perms)).Get("/", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermCompanyWrite, h.Perms)).Put("/", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermCompanyRead, h.Perms)).Get("/members", h.handleMembers)
		r.With(middleware.RequirePermission(auth.PermTeamInvite, h.Perms)).Get("/invitations", h.handleListInvitations)
		r.With(middleware.RequirePermission(auth.PermTeamInvite, h.Perms)).Post("/invitations", h.handleInvite)
	})
}

type companyPayload struct {
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Currency     string `json:"currency"`
	WorkdayStart string `json:"workdayStart"`
	WorkdayEnd   string `json:"workdayEnd"`
}

func (p companyPayload) validate(v *shared.Validator) {
	v.Required("name", p.Name, "is required")
	v.Email("email", p.Email)
	if p.Currency != "" && len(p.Currency) != 3 {
		v.Add("currency", "must be a three-letter code")
	}
}

func (p companyPayload) company() company.Company {
	return company.Company{
		Name:         p.Name,
		Industry:     p.Industry,
		Address:      p.Address,
		Phone:        p.Phone,
		Email:        p.Email,
		Currency:     p.Currency,
		WorkdayStart: p.WorkdayStart,
		WorkdayEnd:   p.WorkdayEnd,
	}
}

type setupResponse struct {
	Company company.Company `json:"company"`
	Session auth.Session    `json:"session"`
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	if user.HasCompany() {
		api.Fail(w, http.StatusConflict, "company_exists", "account already belongs to a company", reqID)
		return
	}

	var payload companyPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	payload.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.Setup(r.Context(), user.UserID, payload.company())
	switch {
	case errors.Is(err, company.ErrAlreadySetUp):
		api.Fail(w, http.StatusConflict, "company_exists", "account already belongs to a company", reqID)
		return
	case company.IsValidationError(err):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "workday", Reason: err.Error()}})
		return
	case err != nil:
		slog.Error("company setup failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "company_create_failed", "failed to set up company", reqID)
		return
	}

	account, err := h.Sessions.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "account_get_failed", "failed to load account", reqID)
		return
	}
	session, err := h.Sessions.Issue(account, auth.Membership{CompanyID: created.ID, UserID: user.UserID, Role: auth.RoleOwner})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), created.ID, user.UserID, audit.ActionCreate, "company", created.ID, reqID, shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit company.create failed", "err", err)
	}
	api.Created(w, setupResponse{Company: created, Session: session}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	c, err := h.Service.Get(r.Context(), user.CompanyID)
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_get_failed", "failed to load company", reqID)
		return
	}
	api.Success(w, c, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload companyPayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	payload.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	before, err := h.Service.Get(r.Context(), user.CompanyID)
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "company not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_get_failed", "failed to load company", reqID)
		return
	}

	next := payload.company()
	next.ID = before.ID
	next.OwnerUserID = before.OwnerUserID
	next.CreatedAt = before.CreatedAt
	updated, err := h.Service.Update(r.Context(), next)
	switch {
	case company.IsValidationError(err):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "workday", Reason: err.Error()}})
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "company_update_failed", "failed to update company", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionUpdate, "company", updated.ID, reqID, shared.ClientIP(r), before, updated); err != nil {
		slog.Warn("audit company.update failed", "err", err)
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleMembers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	members, err := h.Service.Members(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "members_list_failed", "failed to list members", reqID)
		return
	}
	api.Success(w, members, reqID)
}

func (h *Handler) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	invitations, err := h.Service.Invitations(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "invitations_list_failed", "failed to list invitations", reqID)
		return
	}
	api.Success(w, invitations, reqID)
}

type invitePayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type inviteResponse struct {
	Invitation company.Invitation `json:"invitation"`
	Token      string             `json:"token"`
}

func (h *Handler) handleInvite(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload invitePayload
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Email("email", payload.Email)
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleMember}, "must be admin or member")
	if v.Reject(w, reqID) {
		return
	}

	inv, token, err := h.Service.Invite(r.Context(), user.CompanyID, user.UserID, payload.Email, payload.Role)
	switch {
	case errors.Is(err, company.ErrInvalidRole):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "role", Reason: "must be admin or member"}})
		return
	case err != nil:
		slog.Error("invitation create failed", "companyId", user.CompanyID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "invitation_create_failed", "failed to create invitation", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, audit.ActionInvite, "invitation", inv.ID, reqID, shared.ClientIP(r), nil, inv); err != nil {
		slog.Warn("audit invitation.create failed", "err", err)
	}
	api.Created(w, inviteResponse{Invitation: inv, Token: token}, reqID)
}
