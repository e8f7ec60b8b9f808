// Package permission maps session roles to the mutations they may perform.
package permission

import (
	"strings"

	"github.com/talkincode/toughstock/internal/domain"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// rules lists the roles allowed for every action except view.
var rules = map[Action][]domain.Role{
	ActionCreate: {domain.RoleAdmin},
	ActionEdit:   {domain.RoleAdmin, domain.RoleManager},
	ActionDelete: {domain.RoleAdmin},
}

// IsAllowed reports whether role may perform action. View is always allowed;
// unknown actions never are.
func IsAllowed(action Action, role domain.Role) bool {
	if action == ActionView {
		return true
	}
	for _, r := range rules[action] {
		if r == role {
			return true
		}
	}
	return false
}

// ParseAction maps a request value to an Action.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return a, true
	}
	return "", false
}

// Actions returns every known action in a stable order.
func Actions() []Action {
	return []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}
}

// Allowed lists the actions role may perform.
func Allowed(role domain.Role) []Action {
	out := make([]Action, 0, 4)
	for _, a := range Actions() {
		if IsAllowed(a, role) {
			out = append(out, a)
		}
	}
	return out
}
