package dashboardhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/attendance"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/dashboard"
	"paydesk/internal/domain/leave"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/platform/authz"
	"paydesk/internal/transport/http/middleware"
)

type fixedCount int

func (c fixedCount) Count(ctx context.Context, companyID string) (int, error) {
	return int(c), nil
}

type fixedPeriod payroll.PeriodSummary

func (p fixedPeriod) LatestPeriod(ctx context.Context, companyID string) (payroll.PeriodSummary, error) {
	return payroll.PeriodSummary(p), nil
}

type yearRecords struct {
	gotYear int
}

func (y *yearRecords) Year(ctx context.Context, companyID string, year int) ([]attendance.Record, error) {
	y.gotYear = year
	return []attendance.Record{
		{WorkDate: time.Date(year, time.March, 4, 0, 0, 0, 0, time.UTC), Status: attendance.StatusLate},
		{WorkDate: time.Date(year, time.March, 5, 0, 0, 0, 0, time.UTC), Status: attendance.StatusRegular},
	}, nil
}

type leaveSource struct{}

func (leaveSource) List(ctx context.Context, companyID string, filter leave.Filter) ([]leave.Request, error) {
	return []leave.Request{{ID: "lv-1", Status: leave.StatusPending}}, nil
}

func (leaveSource) MonthlyLeave(ctx context.Context, companyID string, year int) (map[time.Month]int, error) {
	return map[time.Month]int{time.March: 2}, nil
}

var member = &auth.UserContext{UserID: "user-1", CompanyID: "co-1", Role: auth.RoleMember}

func newRouter(t *testing.T, records *yearRecords) chi.Router {
	t.Helper()
	perms, err := authz.Default()
	if err != nil {
		t.Fatalf("authz: %v", err)
	}
	svc := &dashboard.Service{
		Employees:  fixedCount(4),
		Benefits:   fixedCount(2),
		Deductions: fixedCount(1),
		Payments:   fixedPeriod{Title: "May 2024", Payments: 4, TotalNet: "4000000", Currency: "RWF"},
		Records:    records,
		Leave:      leaveSource{},
	}
	r := chi.NewRouter()
	NewHandler(svc, perms).RegisterRoutes(r)
	return r
}

func get(r http.Handler, user *auth.UserContext, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSummary(t *testing.T) {
	rec := get(newRouter(t, &yearRecords{}), member, "/dashboard/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data dashboard.Summary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Employees != 4 || env.Data.PendingLeave != 1 || env.Data.LatestPeriod.Title != "May 2024" {
		t.Fatalf("unexpected summary: %+v", env.Data)
	}
}

func TestAttendanceChart(t *testing.T) {
	records := &yearRecords{}
	rec := get(newRouter(t, records), member, "/dashboard/attendance?year=2023")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if records.gotYear != 2023 {
		t.Fatalf("expected year 2023, got %d", records.gotYear)
	}
	var env struct {
		Data struct {
			Year   int                      `json:"year"`
			Months []attendance.MonthCounts `json:"months"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(env.Data.Months))
	}
	march := env.Data.Months[2]
	if march.Late != 1 || march.Regular != 1 || march.Leave != 2 {
		t.Fatalf("unexpected March counts: %+v", march)
	}
}

func TestAttendanceDefaultsToCurrentYear(t *testing.T) {
	records := &yearRecords{}
	get(newRouter(t, records), member, "/dashboard/attendance")
	if records.gotYear != time.Now().Year() {
		t.Fatalf("expected current year, got %d", records.gotYear)
	}
}

func TestAttendanceRejectsBadYear(t *testing.T) {
	rec := get(newRouter(t, &yearRecords{}), member, "/dashboard/attendance?year=twenty")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDashboardNeedsCompany(t *testing.T) {
	rec := get(newRouter(t, &yearRecords{}), &auth.UserContext{UserID: "user-9"}, "/dashboard/summary")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
