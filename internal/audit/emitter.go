// Package audit records the immutable report artifact sent to the
// president after every routing action. Emission runs inside the same
// transaction as the routing writes, so a failed emission rolls the
// whole transition back.
package audit

import (
	"errors"
	"fmt"

	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/storage"
)

// ErrNoPresident is returned when no president account exists to receive
// the report.
var ErrNoPresident = errors.New("no president on record to receive audit report")

// Emitter is the external-facing audit contract. Implementations must
// perform all writes through the supplied transaction-scoped ledger.
type Emitter interface {
	Emit(led storage.Ledger, complaint *models.Complaint, actor models.Actor, reportType, notes string) error
}

// Recorder is the database-backed Emitter: one Report row plus one
// Notification row for the president per routing transition.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(led storage.Ledger, complaint *models.Complaint, actor models.Actor, reportType, notes string) error {
	president, err := led.FindRoleHolder(models.RolePresident, "")
	if err != nil {
		return err
	}
	if president == nil {
		return ErrNoPresident
	}

	content := fmt.Sprintf("complaint %q (%s) moved to status %s by %s %s: %s",
		complaint.Title, complaint.ID, complaint.Status, actor.Role, actor.ID, notes)

	report := &models.Report{
		ComplaintID:   complaint.ID,
		HandlerID:     actor.ID,
		RecipientID:   president.ID,
		ReportType:    reportType,
		ReportContent: content,
	}
	if err := led.AddReport(report); err != nil {
		return err
	}

	return led.AddNotification(&models.Notification{
		UserID:      president.ID,
		ComplaintID: complaint.ID,
		Description: fmt.Sprintf("New %s report on complaint %q", reportType, complaint.Title),
	})
}
