package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/company"
	"paydesk/internal/transport/http/middleware"
)

const testSecret = "handler-secret"

type memoryUsers struct {
	users   map[string]auth.User
	members map[string]auth.Membership
}

func (m *memoryUsers) CreateUser(ctx context.Context, email, fullName, passwordHash string) (auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := m.users[email]; ok {
		return auth.User{}, auth.ErrEmailTaken
	}
	user := auth.User{ID: "user-" + email, Email: email, FullName: fullName, PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.users[email] = user
	return user, nil
}

func (m *memoryUsers) FindUserByEmail(ctx context.Context, email string) (auth.User, error) {
	user, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}

func (m *memoryUsers) GetUser(ctx context.Context, userID string) (auth.User, error) {
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return auth.User{}, auth.ErrNotFound
}

func (m *memoryUsers) PrimaryMembership(ctx context.Context, userID string) (auth.Membership, error) {
	membership, ok := m.members[userID]
	if !ok {
		return auth.Membership{}, auth.ErrNoMembership
	}
	return membership, nil
}

func (m *memoryUsers) AddMember(ctx context.Context, companyID, userID, role string) error {
	m.members[userID] = auth.Membership{CompanyID: companyID, UserID: userID, Role: role}
	return nil
}

type fakeInvitations struct {
	users *memoryUsers
	token string
}

func (f *fakeInvitations) Accept(ctx context.Context, token, userID string) (auth.Membership, error) {
	if token != f.token {
		return auth.Membership{}, company.ErrInvitationInvalid
	}
	_ = f.users.AddMember(ctx, "company-1", userID, auth.RoleMember)
	return auth.Membership{CompanyID: "company-1", UserID: userID, Role: auth.RoleMember}, nil
}

type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, companyID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	return nil
}

func newRouter() chi.Router {
	users := &memoryUsers{users: map[string]auth.User{}, members: map[string]auth.Membership{}}
	h := NewHandler(auth.NewService(users, testSecret, time.Hour), &fakeInvitations{users: users, token: "good-token"}, nopAudit{})
	r := chi.NewRouter()
	r.Use(middleware.Auth(testSecret))
	h.RegisterRoutes(r)
	return r
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Token           string `json:"token"`
		CompanyID       string `json:"companyId"`
		Role            string `json:"role"`
		InvitationError string `json:"invitationError"`
		User            struct {
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func post(t *testing.T, r http.Handler, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var out envelope
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return rec.Code, out
}

func TestSignupLoginAndMe(t *testing.T) {
	r := newRouter()

	status, body := post(t, r, "/auth/signup", `{"email":"Ana@Example.com","password":"correct-horse","fullName":"Ana"}`)
	if status != http.StatusCreated || body.Data.Token == "" {
		t.Fatalf("signup: %d %+v", status, body)
	}
	if body.Data.CompanyID != "" {
		t.Fatalf("expected no company before setup, got %s", body.Data.CompanyID)
	}

	status, body = post(t, r, "/auth/login", `{"email":"ana@example.com","password":"correct-horse"}`)
	if status != http.StatusOK || body.Data.Token == "" {
		t.Fatalf("login: %d %+v", status, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ana@example.com") {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSignupValidationAndConflicts(t *testing.T) {
	r := newRouter()

	status, body := post(t, r, "/auth/signup", `{"email":"nope","password":"short"}`)
	if status != http.StatusBadRequest || body.Error.Code != "validation_error" {
		t.Fatalf("expected validation error, got %d %+v", status, body)
	}

	post(t, r, "/auth/signup", `{"email":"ana@example.com","password":"correct-horse"}`)
	status, body = post(t, r, "/auth/signup", `{"email":"ana@example.com","password":"correct-horse"}`)
	if status != http.StatusConflict || body.Error.Code != "email_taken" {
		t.Fatalf("expected email_taken, got %d %+v", status, body)
	}
}

func TestSignupWithInvitation(t *testing.T) {
	r := newRouter()

	status, body := post(t, r, "/auth/signup", `{"email":"bo@example.com","password":"correct-horse","inviteToken":"good-token"}`)
	if status != http.StatusCreated || body.Data.CompanyID != "company-1" || body.Data.Role != auth.RoleMember {
		t.Fatalf("expected membership in session, got %d %+v", status, body)
	}

	status, body = post(t, r, "/auth/signup", `{"email":"cy@example.com","password":"correct-horse","inviteToken":"stale"}`)
	if status != http.StatusCreated || body.Data.CompanyID != "" || body.Data.InvitationError == "" {
		t.Fatalf("expected account without company and an invitation error, got %d %+v", status, body)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r := newRouter()
	post(t, r, "/auth/signup", `{"email":"ana@example.com","password":"correct-horse"}`)

	status, body := post(t, r, "/auth/login", `{"email":"ana@example.com","password":"wrong-horse"}`)
	if status != http.StatusUnauthorized || body.Error.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %d %+v", status, body)
	}
}

func TestMeRequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
