package routing

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/storage"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// SubmitRequest is a submitter's new complaint.
type SubmitRequest struct {
	Actor        models.Actor
	Title        string
	Description  string
	Category     string
	Tags         []string
	DepartmentID string
}

// Submit files a new complaint. The complaint and its initial pending
// escalation row, addressed to the department's authority, are written in
// one transaction so the complaint has exactly one owner from birth.
func (r *Router) Submit(ctx context.Context, req SubmitRequest) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RouteTimeout)
	defer cancel()

	if req.Actor.Role != models.RoleSubmitter {
		return nil, newError(KindAuthorization, "only submitters may file complaints, got role %s", req.Actor.Role)
	}
	if req.Title == "" || req.DepartmentID == "" {
		return nil, newError(KindValidation, "title and department are required")
	}
	if n := utf8.RuneCountInString(req.Description); n < config.MinDecisionTextLen || n > config.MaxDecisionTextLen {
		return nil, newError(KindValidation, "description must be between %d and %d characters, got %d",
			config.MinDecisionTextLen, config.MaxDecisionTextLen, n)
	}

	authority, err := r.Storage.FindRoleHolder(models.RoleAuthority, req.DepartmentID)
	if err != nil {
		return nil, wrapError(KindPersistence, err, "resolving department authority")
	}
	if authority == nil {
		return nil, newError(KindRoutingUnavailable, "department %s has no authority to receive complaints", req.DepartmentID)
	}

	complaint := &models.Complaint{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         pq.StringArray(req.Tags),
		Status:       models.ComplaintPending,
		DepartmentID: req.DepartmentID,
		SubmitterID:  req.Actor.ID,
	}

	var notes []models.Notification
	err = r.Storage.InTx(ctx, func(led storage.Ledger) error {
		if err := led.SaveComplaint(complaint); err != nil {
			return err
		}

		esc := &models.Escalation{
			ComplaintID:     complaint.ID,
			EscalatedByID:   req.Actor.ID,
			EscalatedByRole: models.RoleSubmitter,
			EscalatedToID:   authority.ID,
			EscalatedToRole: models.RoleAuthority,
			DepartmentID:    req.DepartmentID,
			ActionType:      models.EscalationActionEscalation,
			Status:          models.EscalationPending,
			ReturnToID:      req.Actor.ID,
			ReturnToRole:    models.RoleSubmitter,
		}
		if err := led.AppendEscalation(esc); err != nil {
			return err
		}

		n := models.Notification{
			UserID:      authority.ID,
			ComplaintID: complaint.ID,
			Description: fmt.Sprintf("New complaint %q awaits triage", complaint.Title),
		}
		if err := led.AddNotification(&n); err != nil {
			return err
		}
		notes = append(notes, n)
		return nil
	})
	if err != nil {
		var re *Error
		if !errors.As(err, &re) {
			err = wrapError(KindPersistence, err, "complaint intake failed")
		}
		return nil, err
	}

	r.publish(ctx, notes)
	r.Log.Info("complaint filed",
		zap.String("complaint_id", complaint.ID),
		zap.String("department_id", req.DepartmentID),
		zap.String("submitter_id", req.Actor.ID))
	return complaint, nil
}
