package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EscalationAction distinguishes an upward hop from a downward assignment.
type EscalationAction string

const (
	EscalationActionEscalation EscalationAction = "escalation"
	EscalationActionAssignment EscalationAction = "assignment"
)

// EscalationStatus is the lifecycle of a single escalation row. A row is
// born pending and is closed exactly once: forwarded when an assignment
// supersedes it, resolved when a ruling closes it, superseded when a
// send_back bounces it down the chain.
type EscalationStatus string

const (
	EscalationPending    EscalationStatus = "pending"
	EscalationForwarded  EscalationStatus = "forwarded"
	EscalationResolved   EscalationStatus = "resolved"
	EscalationSuperseded EscalationStatus = "superseded"
)

// Escalation is one hop of a complaint to a specific role and individual.
// Rows are append-only except for the closing fields
// (Status/ResolutionDetails/ResolvedAt).
type Escalation struct {
	ID          string `gorm:"primaryKey" json:"id"`
	ComplaintID string `gorm:"type:text;not null;index:idx_escalation_complaint" json:"complaint_id"`

	EscalatedByID   string `gorm:"type:text;not null" json:"escalated_by_id"`
	EscalatedByRole Role   `gorm:"type:text;not null" json:"escalated_by_role"`
	EscalatedToID   string `gorm:"type:text;not null;index" json:"escalated_to_id"`
	EscalatedToRole Role   `gorm:"type:text;not null" json:"escalated_to_role"`
	DepartmentID    string `gorm:"type:text" json:"department_id"`

	ActionType EscalationAction `gorm:"type:text;not null" json:"action_type"`
	Status     EscalationStatus `gorm:"type:text;not null;index:idx_escalation_complaint" json:"status"`

	ResolutionDetails *string `gorm:"type:text" json:"resolution_details,omitempty"`

	// Return path for a later send_back, fixed when the row is created
	// and never recomputed.
	ReturnToID   string `gorm:"type:text;not null" json:"return_to_id"`
	ReturnToRole Role   `gorm:"type:text;not null" json:"return_to_role"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func (e *Escalation) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}
