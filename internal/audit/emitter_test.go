package audit_test

import (
	"testing"

	"complaintflow/backend/internal/audit"
	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerStub implements storage.Ledger for emitter tests: it records
// report and notification writes and answers the president lookup.
type ledgerStub struct {
	president     *models.User
	reports       []models.Report
	notifications []models.Notification
}

func (l *ledgerStub) ComplaintByID(id string) (*models.Complaint, error) { return nil, nil }
func (l *ledgerStub) SaveComplaint(c *models.Complaint) error            { return nil }
func (l *ledgerStub) PendingRowFor(complaintID string) (*storage.PendingRow, error) {
	return nil, nil
}
func (l *ledgerStub) CloseEscalation(id string, status models.EscalationStatus, resolution string) (bool, error) {
	return false, nil
}
func (l *ledgerStub) CloseDecision(id string) (bool, error)       { return false, nil }
func (l *ledgerStub) AppendEscalation(e *models.Escalation) error { return nil }
func (l *ledgerStub) AppendDecision(d *models.Decision) error     { return nil }
func (l *ledgerStub) AddNotification(n *models.Notification) error {
	l.notifications = append(l.notifications, *n)
	return nil
}
func (l *ledgerStub) AddReport(r *models.Report) error {
	l.reports = append(l.reports, *r)
	return nil
}
func (l *ledgerStub) UserByID(id string) (*models.User, error) { return nil, nil }
func (l *ledgerStub) FindRoleHolder(role models.Role, departmentID string) (*models.User, error) {
	if role == models.RolePresident {
		return l.president, nil
	}
	return nil, nil
}

func TestEmitRecordsReportAndNotifiesPresident(t *testing.T) {
	led := &ledgerStub{president: &models.User{ID: "pres-1", Role: models.RolePresident}}
	rec := audit.NewRecorder()

	complaint := &models.Complaint{
		ID:     "c-42",
		Title:  "Broken projector",
		Status: models.ComplaintEscalated,
	}
	actor := models.Actor{ID: "hand-3", Role: models.RoleHandler}

	err := rec.Emit(led, complaint, actor, "escalate", "needs budget approval from above")
	require.NoError(t, err)

	require.Len(t, led.reports, 1)
	report := led.reports[0]
	assert.Equal(t, "c-42", report.ComplaintID)
	assert.Equal(t, "hand-3", report.HandlerID)
	assert.Equal(t, "pres-1", report.RecipientID)
	assert.Equal(t, "escalate", report.ReportType)
	assert.Contains(t, report.ReportContent, "Broken projector")
	assert.Contains(t, report.ReportContent, "escalated")

	require.Len(t, led.notifications, 1)
	assert.Equal(t, "pres-1", led.notifications[0].UserID)
	assert.Equal(t, "c-42", led.notifications[0].ComplaintID)
}

func TestEmitFailsWithoutPresident(t *testing.T) {
	led := &ledgerStub{}
	rec := audit.NewRecorder()

	err := rec.Emit(led, &models.Complaint{ID: "c-42"}, models.Actor{ID: "a"}, "resolve", "done")
	require.Error(t, err)
	assert.ErrorIs(t, err, audit.ErrNoPresident)
	assert.Empty(t, led.reports, "no report without a recipient")
	assert.Empty(t, led.notifications)
}
