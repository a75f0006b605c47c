package authz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
)

// policyModel grants a capability when the role holds it at scope "any", or at scope
// "self" and the caller owns the record.
const policyModel = `
[request_definition]
r = role, actor, owner, act

[policy_definition]
p = role, scope, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.role == p.role && r.act == p.act && (p.scope == "any" || (r.actor != "" && r.actor == r.owner))
`

type AuthorizerImpl struct {
	enforcer *casbin.SyncedEnforcer
}

// NewAuthorizer builds a casbin enforcer seeded from the given role policies.
func NewAuthorizer(policies map[authz.Role][]authz.Grant) (*AuthorizerImpl, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	var rules [][]string
	for role, grants := range policies {
		for _, g := range grants {
			rules = append(rules, []string{string(role), string(g.Scope), string(g.Capability)})
		}
	}
	if len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("failed to load policies: %w", err)
		}
	}

	return &AuthorizerImpl{enforcer: enforcer}, nil
}

// Authorize implements authz.Authorizer.
func (a *AuthorizerImpl) Authorize(ctx context.Context, capability authz.Capability, employeeID string) error {
	subject, ok := authz.SubjectFromContext(ctx)
	if !ok {
		return authz.ErrMissingSubject
	}

	allowed, err := a.enforcer.Enforce(string(subject.Role), subject.EmployeeID, employeeID, string(capability))
	if err != nil {
		return fmt.Errorf("failed to enforce policy: %w", err)
	}
	if !allowed {
		slog.Debug("Capability denied", "role", subject.Role, "capability", capability, "employee_id", employeeID)
		return authz.ErrForbidden
	}
	return nil
}

var _ authz.Authorizer = (*AuthorizerImpl)(nil)
