package authhandler

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

const minPasswordLength = 8

// InvitationAcceptor joins a freshly signed-up user to the inviting company.
type InvitationAcceptor interface {
	Accept(ctx context.Context, token, userID string) (auth.Membership, error)
}

type Handler struct {
	Service     *auth.Service
	Invitations InvitationAcceptor
	Audit       audit.Recorder
}

func NewHandler(service *auth.Service, invitations InvitationAcceptor, auditSvc audit.Recorder) *Handler {
	return &Handler{Service: service, Invitations: invitations, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireUser).Get("/me", h.handleMe)
	})
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	InviteToken string `json:"inviteToken"`
}

type signupResponse struct {
	auth.Session
	InvitationError string `json:"invitationError,omitempty"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload signupRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Email("email", payload.Email)
	v.MinLength("password", payload.Password, minPasswordLength)
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Service.Signup(r.Context(), payload.Email, payload.Password, payload.FullName)
	if errors.Is(err, auth.ErrEmailTaken) {
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
		return
	}
	if err != nil {
		slog.Error("signup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "signup_failed", "failed to create account", reqID)
		return
	}

	// A bad invitation leaves the account in place without a company.
	resp := signupResponse{}
	var membership auth.Membership
	if payload.InviteToken != "" && h.Invitations != nil {
		membership, err = h.Invitations.Accept(r.Context(), payload.InviteToken, user.ID)
		switch {
		case errors.Is(err, company.ErrInvitationInvalid):
			resp.InvitationError = err.Error()
		case err != nil:
			slog.Warn("invitation accept failed", "userId", user.ID, "err", err)
			resp.InvitationError = "invitation could not be accepted"
		}
	}

	resp.Session, err = h.Service.Issue(user, membership)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	if membership.CompanyID != "" {
		if err := h.Audit.Record(r.Context(), membership.CompanyID, user.ID, audit.ActionCreate, "member", user.ID, reqID, shared.ClientIP(r), nil, membership); err != nil {
			slog.Warn("audit member.create failed", "err", err)
		}
	}
	api.Created(w, resp, reqID)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, reqID) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err != nil {
		slog.Error("login failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to sign in", reqID)
		return
	}
	api.Success(w, session, reqID)
}

type meResponse struct {
	User      auth.User `json:"user"`
	CompanyID string    `json:"companyId,omitempty"`
	Role      string    `json:"role,omitempty"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	account, err := h.Service.GetUser(r.Context(), user.UserID)
	if errors.Is(err, auth.ErrNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account no longer exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "account_get_failed", "failed to load account", reqID)
		return
	}
	api.Success(w, meResponse{User: account, CompanyID: user.CompanyID, Role: user.Role}, reqID)
}
