package routing

import (
	"unicode/utf8"

	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"
)

// permitted is the declarative role × action table. The president sits at
// the top of the chain and has nobody to escalate to.
var permitted = map[models.Role]map[models.Action]bool{
	models.RoleHandler: {
		models.ActionEscalate: true,
		models.ActionSendBack: true,
		models.ActionResolve:  true,
	},
	models.RoleAuthority: {
		models.ActionAssign:   true,
		models.ActionEscalate: true,
		models.ActionSendBack: true,
		models.ActionResolve:  true,
	},
	models.RoleVicePresident: {
		models.ActionAssign:   true,
		models.ActionEscalate: true,
		models.ActionSendBack: true,
		models.ActionResolve:  true,
	},
	models.RolePresident: {
		models.ActionAssign:   true,
		models.ActionSendBack: true,
		models.ActionResolve:  true,
	},
}

// Allowed reports whether the role may perform the action at all.
func Allowed(role models.Role, action models.Action) bool {
	return permitted[role][action]
}

// NextRole returns the escalation target role one level above the actor.
func NextRole(role models.Role) (models.Role, bool) {
	switch role {
	case models.RoleHandler:
		return models.RoleAuthority, true
	case models.RoleAuthority:
		return models.RoleVicePresident, true
	case models.RoleVicePresident:
		return models.RolePresident, true
	}
	return "", false
}

func requiresText(action models.Action) bool {
	return action != models.ActionAssign
}

// validatePayload checks the request payload without touching storage.
func validatePayload(req Request) *Error {
	if requiresText(req.Action) {
		n := utf8.RuneCountInString(req.Text)
		if n < config.MinDecisionTextLen || n > config.MaxDecisionTextLen {
			return newError(KindValidation, "decision text must be between %d and %d characters, got %d",
				config.MinDecisionTextLen, config.MaxDecisionTextLen, n)
		}
	}

	switch req.Action {
	case models.ActionAssign:
		if req.HandlerID == "" {
			return newError(KindValidation, "assign requires a handler id")
		}
	case models.ActionResolve:
		switch req.Outcome {
		case "", models.ComplaintResolved, models.ComplaintRejected:
		default:
			return newError(KindValidation, "resolve outcome must be %s or %s",
				models.ComplaintResolved, models.ComplaintRejected)
		}
	}
	return nil
}
