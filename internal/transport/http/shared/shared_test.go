package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Required("name", " ", "is required")
	v.Enum("type", "bracket", []string{"fixed", "percentage"}, "must be fixed or percentage")
	v.Enum("rate", "", []string{"monthly"}, "ignored when empty")
	negative := decimal.RequireFromString("-1")
	v.Amount("value", &negative)
	v.Amount("amount", nil)

	issues := v.Issues()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %+v", issues)
	}
	want := []string{"amount", "name", "type", "value"}
	for i, field := range want {
		if issues[i].Field != field {
			t.Fatalf("issue %d: expected %s, got %s", i, field, issues[i].Field)
		}
	}
}

func TestRejectWritesValidationEnvelope(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "is required")
	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected reject")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" || len(body.Error.Details.Fields) != 1 || body.RequestID != "req-1" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	if got := ClientIP(req); got != "10.0.0.9" {
		t.Fatalf("expected peer ip, got %s", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected forwarded ip, got %s", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst map[string]any
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if DecodeJSON(rec, req, &dst, "") {
		t.Fatal("expected malformed body to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	if !DecodeJSON(rec, req, &dst, "") {
		t.Fatal("expected valid body to decode")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-31")
	if err != nil || d.Day() != 31 {
		t.Fatalf("unexpected %v %v", d, err)
	}
	if _, err := ParseDate("31/01/2026"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestPageFromRequest(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", 100, 0},
		{"limit=20&offset=40", 20, 40},
		{"limit=9000", 500, 0},
		{"limit=-1&offset=-5", 100, 0},
		{"limit=abc", 100, 0},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		page := PageFromRequest(req, 100, 500)
		if page.Limit != tc.limit || page.Offset != tc.offset {
			t.Fatalf("%q: got %+v", tc.query, page)
		}
	}
}

func TestValidatorEmail(t *testing.T) {
	v := NewValidator()
	v.Email("email", "ana@example.com")
	v.Email("email", "")
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
	v.Email("email", "Ana <ana@example.com>")
	v.Email("email", "not-an-email")
	if len(v.Issues()) != 2 {
		t.Fatalf("expected two issues, got %+v", v.Issues())
	}
}
