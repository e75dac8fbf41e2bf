package audithandler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/platform/authz"
	"paydesk/internal/transport/http/middleware"
)

// The listing itself runs against Postgres; these cover the gate in front.
func TestAuditRequiresAdmin(t *testing.T) {
	perms, err := authz.Default()
	if err != nil {
		t.Fatalf("authz: %v", err)
	}
	r := chi.NewRouter()
	NewHandler(nil, perms).RegisterRoutes(r)

	cases := []struct {
		name string
		user *auth.UserContext
		path string
		want int
	}{
		{"anonymous", nil, "/audit/events", http.StatusUnauthorized},
		{"member list", &auth.UserContext{UserID: "u", CompanyID: "c", Role: auth.RoleMember}, "/audit/events", http.StatusForbidden},
		{"member export", &auth.UserContext{UserID: "u", CompanyID: "c", Role: auth.RoleMember}, "/audit/events/export", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.user != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
