// Package models defines the persistent entities of the complaint ledger
// and the closed enumerations (roles, actions, statuses) used by the
// escalation router. String values are validated at the boundary; the
// state machine only ever sees members of these types.
package models

import "fmt"

// Role identifies a level in the organizational hierarchy.
type Role string

const (
	RoleSubmitter     Role = "submitter"
	RoleHandler       Role = "handler"
	RoleAuthority     Role = "department_authority"
	RoleVicePresident Role = "vice_president"
	RolePresident     Role = "president"
)

// ParseRole rejects unknown role strings before they reach the router.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSubmitter, RoleHandler, RoleAuthority, RoleVicePresident, RolePresident:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Action is one of the four routing actions.
type Action string

const (
	ActionAssign   Action = "assign"
	ActionEscalate Action = "escalate"
	ActionSendBack Action = "send_back"
	ActionResolve  Action = "resolve"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAssign, ActionEscalate, ActionSendBack, ActionResolve:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Actor is the request-scoped identity of the caller, built from the
// identity provider's claims and passed explicitly into every router
// call. Never read from ambient state.
type Actor struct {
	ID           string `json:"id"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"department_id"`
}
