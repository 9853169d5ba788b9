package models

// LedgerRowKind tags which ledger table a row view came from.
type LedgerRowKind string

const (
	RowKindEscalation LedgerRowKind = "escalation"
	RowKindDecision   LedgerRowKind = "decision"
)

// LedgerRowView is the projection of a ledger row that the complaint
// status depends on.
type LedgerRowView struct {
	Kind             LedgerRowKind
	ActionType       EscalationAction
	EscalationStatus EscalationStatus
	DecisionStatus   DecisionStatus
	OpenedByRole     Role
	Outcome          *ComplaintStatus
}

// View projects an escalation row for status derivation.
func (e *Escalation) View() LedgerRowView {
	return LedgerRowView{
		Kind:             RowKindEscalation,
		ActionType:       e.ActionType,
		EscalationStatus: e.Status,
		OpenedByRole:     e.EscalatedByRole,
	}
}

// View projects a decision row for status derivation.
func (d *Decision) View() LedgerRowView {
	return LedgerRowView{
		Kind:           RowKindDecision,
		DecisionStatus: d.Status,
		OpenedByRole:   d.SenderRole,
		Outcome:        d.Outcome,
	}
}

// DeriveStatus returns the complaint status implied by the most recent
// ledger row. The router sets Complaint.Status to exactly this value in
// the same transaction that writes the row, so the two never diverge.
//
// The second return value is false for row shapes the router never
// leaves as the latest row of a complaint.
func DeriveStatus(row LedgerRowView) (ComplaintStatus, bool) {
	switch row.Kind {
	case RowKindEscalation:
		if row.EscalationStatus != EscalationPending {
			return "", false
		}
		if row.ActionType == EscalationActionAssignment {
			return ComplaintAssigned, true
		}
		switch row.OpenedByRole {
		case RoleSubmitter:
			// Intake row awaiting the department authority.
			return ComplaintPending, true
		case RoleHandler:
			return ComplaintEscalated, true
		default:
			// Escalation opened above handler level: mid-chain.
			return ComplaintInProgress, true
		}
	case RowKindDecision:
		switch row.DecisionStatus {
		case DecisionPending:
			return ComplaintPending, true
		case DecisionFinal:
			if row.Outcome == nil {
				return "", false
			}
			return *row.Outcome, true
		}
	}
	return "", false
}
