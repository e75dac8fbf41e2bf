// Package authz answers role/permission questions with a casbin RBAC
// enforcer built from the role table in the auth domain.
package authz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"paydesk/internal/domain/auth"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds the enforcer from role permissions and role inheritance.
func New(rolePermissions map[string][]string, parents map[string]string) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	policy, err := PolicyText(rolePermissions, parents)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func Default() (*Authorizer, error) {
	return New(auth.RolePermissions, auth.RoleParents)
}

// PolicyText renders the casbin CSV policy in a stable order.
func PolicyText(rolePermissions map[string][]string, parents map[string]string) (string, error) {
	var lines []string
	for role, perms := range rolePermissions {
		for _, perm := range perms {
			obj, act, err := splitPermission(perm)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("p, %s, %s, %s", subject(role), obj, act))
		}
	}
	for child, parent := range parents {
		lines = append(lines, fmt.Sprintf("g, %s, %s", subject(child), subject(parent)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

// HasPermission satisfies middleware.PermissionStore.
func (a *Authorizer) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	if strings.TrimSpace(role) == "" {
		return false, nil
	}
	obj, act, err := splitPermission(permission)
	if err != nil {
		return false, err
	}
	return a.enforcer.Enforce(subject(role), obj, act)
}

func subject(role string) string {
	return "role:" + strings.ToLower(strings.TrimSpace(role))
}

func splitPermission(permission string) (string, string, error) {
	obj, act, ok := strings.Cut(permission, ".")
	if !ok || obj == "" || act == "" {
		return "", "", fmt.Errorf("authz: malformed permission %q", permission)
	}
	return obj, act, nil
}
