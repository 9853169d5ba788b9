// Package routing implements the escalation router: the single entry
// point through which every complaint transition flows. One call closes
// the complaint's current pending ledger row, opens at most one new row,
// updates the complaint status, writes the notification rows and emits
// the audit report, all inside one storage transaction.
package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"complaintflow/backend/internal/audit"
	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/notify"
	"complaintflow/backend/internal/storage"

	"go.uber.org/zap"
)

// Request is one routing action against one complaint, performed by an
// explicitly identified actor.
type Request struct {
	ComplaintID string
	Actor       models.Actor
	Action      models.Action
	// Text is the decision or resolution narrative. Required for
	// escalate, send_back and resolve.
	Text string
	// HandlerID is the assignment target. Required for assign.
	HandlerID string
	// Outcome is the terminal status for resolve: resolved (default) or
	// rejected.
	Outcome models.ComplaintStatus
}

// Outcome describes a successful transition.
type Outcome struct {
	Complaint *models.Complaint
	// Escalation is the newly opened escalation row, if the action
	// created one.
	Escalation *models.Escalation
	// Decision is the newly created decision row, if the action created
	// one (pending for send_back, final for resolve).
	Decision *models.Decision

	Notifications []models.Notification
}

// Router executes routing actions. It owns the transaction boundary; no
// other component writes complaint or ledger rows.
type Router struct {
	Storage  storage.Storage
	Audit    audit.Emitter
	Notifier notify.Notifier
	Log      *zap.Logger
}

func NewRouter(s storage.Storage, a audit.Emitter, n notify.Notifier, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{Storage: s, Audit: a, Notifier: n, Log: log}
}

// Route validates the request, executes the transition atomically and
// returns either the outcome or a typed failure. On any failure the
// complaint's visible state is unchanged.
func (r *Router) Route(ctx context.Context, req Request) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RouteTimeout)
	defer cancel()

	if !Allowed(req.Actor.Role, req.Action) {
		return nil, newError(KindAuthorization, "role %s may not perform %s", req.Actor.Role, req.Action)
	}
	if verr := validatePayload(req); verr != nil {
		return nil, verr
	}

	// Pre-transaction reads. Nothing here mutates, so a failure leaves
	// storage untouched without needing a rollback.
	complaint, err := r.Storage.ComplaintByID(req.ComplaintID)
	if err != nil {
		return nil, wrapError(KindPersistence, err, "loading complaint")
	}
	if complaint == nil {
		return nil, newError(KindNotFoundOrAlreadyProcessed, "complaint %s does not exist", req.ComplaintID)
	}
	if complaint.Terminal() {
		return nil, newError(KindNotFoundOrAlreadyProcessed, "complaint %s is already %s", complaint.ID, complaint.Status)
	}

	target, terr := r.resolveTarget(req, complaint)
	if terr != nil {
		return nil, terr
	}

	var out *Outcome
	err = r.Storage.InTx(ctx, func(led storage.Ledger) error {
		c, err := led.ComplaintByID(req.ComplaintID)
		if err != nil {
			return err
		}
		if c == nil {
			return newError(KindNotFoundOrAlreadyProcessed, "complaint %s does not exist", req.ComplaintID)
		}

		row, err := led.PendingRowFor(c.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return newError(KindNotFoundOrAlreadyProcessed, "complaint %s has no pending ledger row", c.ID)
		}
		if row.TargetID() != req.Actor.ID || row.TargetRole() != req.Actor.Role {
			return newError(KindAuthorization, "complaint %s is pending with %s %s, not %s %s",
				c.ID, row.TargetRole(), row.TargetID(), req.Actor.Role, req.Actor.ID)
		}

		out, err = r.apply(led, c, row, req, target)
		if err != nil {
			return err
		}

		if err := r.Audit.Emit(led, c, req.Actor, string(req.Action), req.Text); err != nil {
			return wrapError(KindAuditEmission, err, "audit report emission failed")
		}
		return nil
	})
	if err != nil {
		var re *Error
		if !errors.As(err, &re) {
			err = wrapError(KindPersistence, err, "routing transaction failed")
		}
		r.Log.Warn("routing action failed",
			zap.String("complaint_id", req.ComplaintID),
			zap.String("action", string(req.Action)),
			zap.String("actor_id", req.Actor.ID),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err))
		return nil, err
	}

	r.publish(ctx, out.Notifications)
	r.Log.Info("routing action applied",
		zap.String("complaint_id", req.ComplaintID),
		zap.String("action", string(req.Action)),
		zap.String("actor_id", req.Actor.ID),
		zap.String("actor_role", string(req.Actor.Role)),
		zap.String("status", string(out.Complaint.Status)))
	return out, nil
}

// resolveTarget finds the user the action hands the complaint to, before
// any write: the next role holder for escalate, the requested handler for
// assign, nobody for send_back/resolve.
func (r *Router) resolveTarget(req Request, complaint *models.Complaint) (*models.User, *Error) {
	switch req.Action {
	case models.ActionEscalate:
		next, ok := NextRole(req.Actor.Role)
		if !ok {
			return nil, newError(KindRoutingUnavailable, "no role above %s to escalate to", req.Actor.Role)
		}
		dept := ""
		if next == models.RoleAuthority {
			dept = complaint.DepartmentID
		}
		target, err := r.Storage.FindRoleHolder(next, dept)
		if err != nil {
			return nil, wrapError(KindPersistence, err, "resolving escalation target")
		}
		if target == nil {
			return nil, newError(KindRoutingUnavailable, "no %s available to receive the escalation", next)
		}
		return target, nil

	case models.ActionAssign:
		target, err := r.Storage.UserByID(req.HandlerID)
		if err != nil {
			return nil, wrapError(KindPersistence, err, "resolving assignment target")
		}
		if target == nil || target.Role != models.RoleHandler {
			return nil, newError(KindValidation, "user %s is not a handler", req.HandlerID)
		}
		if target.DepartmentID != complaint.DepartmentID {
			return nil, newError(KindValidation, "handler %s does not belong to department %s",
				req.HandlerID, complaint.DepartmentID)
		}
		return target, nil
	}
	return nil, nil
}

// apply performs the transition effects for one action. The caller has
// already verified the actor owns the pending row; closing it is still
// conditional so a concurrent winner is detected here.
func (r *Router) apply(led storage.Ledger, c *models.Complaint, row *storage.PendingRow, req Request, target *models.User) (*Outcome, error) {
	out := &Outcome{Complaint: c}

	closeRow := func(escStatus models.EscalationStatus) error {
		var ok bool
		var err error
		if row.Escalation != nil {
			ok, err = led.CloseEscalation(row.Escalation.ID, escStatus, req.Text)
		} else {
			ok, err = led.CloseDecision(row.Decision.ID)
		}
		if err != nil {
			return err
		}
		if !ok {
			return newError(KindNotFoundOrAlreadyProcessed, "pending row of complaint %s was already processed", c.ID)
		}
		return nil
	}

	switch req.Action {
	case models.ActionAssign:
		if err := closeRow(models.EscalationForwarded); err != nil {
			return nil, err
		}
		esc := &models.Escalation{
			ComplaintID:     c.ID,
			EscalatedByID:   req.Actor.ID,
			EscalatedByRole: req.Actor.Role,
			EscalatedToID:   target.ID,
			EscalatedToRole: models.RoleHandler,
			DepartmentID:    c.DepartmentID,
			ActionType:      models.EscalationActionAssignment,
			Status:          models.EscalationPending,
			ReturnToID:      req.Actor.ID,
			ReturnToRole:    req.Actor.Role,
		}
		if err := led.AppendEscalation(esc); err != nil {
			return nil, err
		}
		handlerID := target.ID
		c.HandlerID = &handlerID
		out.Escalation = esc
		if err := r.notes(led, out, c,
			noteTo{target.ID, fmt.Sprintf("Complaint %q has been assigned to you", c.Title)},
			noteTo{c.SubmitterID, fmt.Sprintf("Your complaint %q has been assigned to a handler", c.Title)},
			noteTo{row.ReturnToID(), fmt.Sprintf("Complaint %q was reassigned", c.Title)},
		); err != nil {
			return nil, err
		}
		return out, r.setStatus(led, c, esc.View())

	case models.ActionEscalate:
		if err := closeRow(models.EscalationResolved); err != nil {
			return nil, err
		}
		esc := &models.Escalation{
			ComplaintID:     c.ID,
			EscalatedByID:   req.Actor.ID,
			EscalatedByRole: req.Actor.Role,
			EscalatedToID:   target.ID,
			EscalatedToRole: target.Role,
			DepartmentID:    c.DepartmentID,
			ActionType:      models.EscalationActionEscalation,
			Status:          models.EscalationPending,
			ReturnToID:      req.Actor.ID,
			ReturnToRole:    req.Actor.Role,
		}
		if err := led.AppendEscalation(esc); err != nil {
			return nil, err
		}
		out.Escalation = esc
		if err := r.notes(led, out, c,
			noteTo{target.ID, fmt.Sprintf("Complaint %q has been escalated to you", c.Title)},
			noteTo{c.SubmitterID, fmt.Sprintf("Your complaint %q has been escalated", c.Title)},
			noteTo{row.ReturnToID(), fmt.Sprintf("Complaint %q has been escalated further", c.Title)},
		); err != nil {
			return nil, err
		}
		return out, r.setStatus(led, c, esc.View())

	case models.ActionSendBack:
		retID, retRole := row.ReturnToID(), row.ReturnToRole()
		if retRole == models.RoleSubmitter {
			return nil, newError(KindRoutingUnavailable, "complaint %s has no actionable return path", c.ID)
		}
		if err := closeRow(models.EscalationSuperseded); err != nil {
			return nil, err
		}
		dec := &models.Decision{
			ComplaintID:  c.ID,
			EscalationID: row.EscalationID(),
			SenderID:     req.Actor.ID,
			SenderRole:   req.Actor.Role,
			ReceiverID:   retID,
			ReceiverRole: retRole,
			DecisionText: req.Text,
			Status:       models.DecisionPending,
			ReturnToID:   req.Actor.ID,
			ReturnToRole: req.Actor.Role,
		}
		if err := led.AppendDecision(dec); err != nil {
			return nil, err
		}
		out.Decision = dec
		if err := r.notes(led, out, c,
			noteTo{retID, fmt.Sprintf("Complaint %q was sent back to you", c.Title)},
			noteTo{c.SubmitterID, fmt.Sprintf("Your complaint %q is back under review", c.Title)},
		); err != nil {
			return nil, err
		}
		return out, r.setStatus(led, c, dec.View())

	case models.ActionResolve:
		outcome := req.Outcome
		if outcome == "" {
			outcome = models.ComplaintResolved
		}
		if err := closeRow(models.EscalationResolved); err != nil {
			return nil, err
		}
		dec := &models.Decision{
			ComplaintID:  c.ID,
			EscalationID: row.EscalationID(),
			SenderID:     req.Actor.ID,
			SenderRole:   req.Actor.Role,
			ReceiverID:   c.SubmitterID,
			ReceiverRole: models.RoleSubmitter,
			DecisionText: req.Text,
			Status:       models.DecisionFinal,
			Outcome:      &outcome,
			ReturnToID:   req.Actor.ID,
			ReturnToRole: req.Actor.Role,
		}
		if err := led.AppendDecision(dec); err != nil {
			return nil, err
		}
		now := time.Now()
		text := req.Text
		c.ResolutionDetails = &text
		c.ResolutionDate = &now
		out.Decision = dec
		if err := r.notes(led, out, c,
			noteTo{c.SubmitterID, fmt.Sprintf("Your complaint %q has been %s", c.Title, outcome)},
			noteTo{row.ReturnToID(), fmt.Sprintf("Complaint %q has been %s", c.Title, outcome)},
		); err != nil {
			return nil, err
		}
		return out, r.setStatus(led, c, dec.View())
	}

	return nil, newError(KindValidation, "unknown action %q", req.Action)
}

// setStatus derives the complaint status from the row the transition just
// appended and persists the complaint. Derivation failure means the state
// machine produced a row shape it never should; surfaced as persistence.
func (r *Router) setStatus(led storage.Ledger, c *models.Complaint, row models.LedgerRowView) error {
	status, ok := models.DeriveStatus(row)
	if !ok {
		return fmt.Errorf("no derivable complaint status for row %+v", row)
	}
	c.Status = status
	return led.SaveComplaint(c)
}

type noteTo struct {
	userID string
	desc   string
}

func (r *Router) notes(led storage.Ledger, out *Outcome, c *models.Complaint, recipients ...noteTo) error {
	for _, rec := range recipients {
		if err := r.note(led, out, c, rec.userID, rec.desc); err != nil {
			return err
		}
	}
	return nil
}

// note writes one notification row unless the recipient is empty or was
// already notified in this transition. Failures abort the transaction;
// notification rows are part of the atomic unit.
func (r *Router) note(led storage.Ledger, out *Outcome, c *models.Complaint, userID, desc string) error {
	if userID == "" {
		return nil
	}
	for _, n := range out.Notifications {
		if n.UserID == userID {
			return nil
		}
	}
	n := models.Notification{
		UserID:      userID,
		ComplaintID: c.ID,
		Description: desc,
	}
	if err := led.AddNotification(&n); err != nil {
		return err
	}
	out.Notifications = append(out.Notifications, n)
	return nil
}

// publish pushes committed notifications to the delivery bridge.
// Best-effort: the rows are already durable.
func (r *Router) publish(ctx context.Context, notes []models.Notification) {
	if r.Notifier == nil {
		return
	}
	for _, n := range notes {
		if err := r.Notifier.Publish(ctx, n); err != nil {
			r.Log.Warn("notification publish failed",
				zap.String("user_id", n.UserID),
				zap.Error(err))
		}
	}
}
