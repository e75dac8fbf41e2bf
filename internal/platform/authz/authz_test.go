package authz

import (
	"context"
	"strings"
	"testing"

	"paydesk/internal/domain/auth"
)

func TestDefaultRoleHierarchy(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		role       string
		permission string
		want       bool
	}{
		{auth.RoleMember, auth.PermDeductionsRead, true},
		{auth.RoleMember, auth.PermDeductionsWrite, false},
		{auth.RoleMember, auth.PermLeaveWrite, true},
		{auth.RoleAdmin, auth.PermDeductionsWrite, true},
		{auth.RoleAdmin, auth.PermDeductionsRead, true},
		{auth.RoleAdmin, auth.PermCompanyWrite, false},
		{auth.RoleOwner, auth.PermCompanyWrite, true},
		{auth.RoleOwner, auth.PermPaymentsRun, true},
		{auth.RoleOwner, auth.PermAttendanceRead, true},
		{"", auth.PermDeductionsRead, false},
		{"stranger", auth.PermDeductionsRead, false},
	}
	for _, tc := range cases {
		got, err := a.HasPermission(ctx, tc.role, tc.permission)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.role, tc.permission, err)
		}
		if got != tc.want {
			t.Fatalf("%s %s: expected %v, got %v", tc.role, tc.permission, tc.want, got)
		}
	}
}

func TestMalformedPermission(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}
	if _, err := a.HasPermission(context.Background(), auth.RoleOwner, "nodot"); err == nil {
		t.Fatal("expected malformed permission error")
	}
	if _, err := PolicyText(map[string][]string{"x": {"bad"}}, nil); err == nil {
		t.Fatal("expected policy error")
	}
}

func TestPolicyTextIsStable(t *testing.T) {
	first, err := PolicyText(auth.RolePermissions, auth.RoleParents)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	second, _ := PolicyText(auth.RolePermissions, auth.RoleParents)
	if first != second {
		t.Fatal("expected deterministic policy text")
	}
	if !strings.Contains(first, "g, role:owner, role:admin") {
		t.Fatalf("expected inheritance line, got:\n%s", first)
	}
}
