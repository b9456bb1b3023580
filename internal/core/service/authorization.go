package service

import (
	"context"

	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

type grant struct {
	action domain.Permission
	roles  []domain.Role
}

// grants is the whole role/action table. Actions absent from a row's roles
// are denied; MANAGE_USERS is deliberately granted to nobody.
var grants = [...]grant{
	{domain.PermViewCustomers, []domain.Role{domain.RoleAdmin, domain.RoleSalesRep, domain.RoleAnalyst}},
	{domain.PermCreateCustomer, []domain.Role{domain.RoleAdmin, domain.RoleSalesRep}},
	{domain.PermUpdateCustomer, []domain.Role{domain.RoleAdmin, domain.RoleSalesRep}},
	{domain.PermDeleteCustomer, []domain.Role{domain.RoleAdmin}},
	{domain.PermViewInteractions, []domain.Role{domain.RoleAdmin, domain.RoleSalesRep, domain.RoleAnalyst}},
	{domain.PermCreateInteraction, []domain.Role{domain.RoleAdmin, domain.RoleSalesRep}},
	{domain.PermUpdateInteraction, []domain.Role{domain.RoleAdmin, domain.RoleSalesRep}},
	{domain.PermDeleteInteraction, []domain.Role{domain.RoleAdmin}},
	{domain.PermViewCharts, []domain.Role{domain.RoleAdmin, domain.RoleAnalyst}},
	{domain.PermManageUsers, nil},
}

// Adding a permission without a table row fails to compile here.
var _ [len(domain.AllPermissions)]struct{} = [len(grants)]struct{}{}

type roleAction struct {
	role   domain.Role
	action domain.Permission
}

var allowed = buildAllowed()

func buildAllowed() map[roleAction]bool {
	m := make(map[roleAction]bool, len(grants)*len(domain.AllRoles))
	for _, g := range grants {
		for _, r := range g.roles {
			m[roleAction{r, g.action}] = true
		}
	}
	return m
}

// IsAllowed reports whether id may perform action. A nil identity, an unknown
// role, or an unknown action is always denied.
//
// The decision only gates what the console offers; the CRM API enforces the
// same rules on its own.
func IsAllowed(id *domain.Identity, action domain.Permission) bool {
	if id == nil {
		return false
	}
	return allowed[roleAction{id.Role, action}]
}

// Evaluator answers permission questions for console sessions.
type Evaluator struct {
	sessions ports.SessionReader
}

// NewEvaluator returns an Evaluator reading identities from sessions.
func NewEvaluator(sessions ports.SessionReader) *Evaluator {
	return &Evaluator{sessions: sessions}
}

// Permissions returns the decision for every known action.
func (e *Evaluator) Permissions(id *domain.Identity) map[domain.Permission]bool {
	out := make(map[domain.Permission]bool, len(domain.AllPermissions))
	for _, p := range domain.AllPermissions {
		out[p] = IsAllowed(id, p)
	}
	return out
}

// SessionAllows looks up the identity behind sessionID and evaluates action.
// Lookup failures deny.
func (e *Evaluator) SessionAllows(ctx context.Context, sessionID string, action domain.Permission) bool {
	if e.sessions == nil || sessionID == "" {
		return false
	}
	id, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return false
	}
	return IsAllowed(id, action)
}
