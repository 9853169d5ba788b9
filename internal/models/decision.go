package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DecisionStatus is the lifecycle of a decision row: pending while it
// awaits the receiver's action, final once closed out.
type DecisionStatus string

const (
	DecisionPending DecisionStatus = "pending"
	DecisionFinal   DecisionStatus = "final"
)

// Decision is a reply or ruling between two actors, tracked separately
// from upward escalations. A pending decision makes its receiver the
// complaint's current owner; a final decision records a ruling and, for
// resolutions, the terminal outcome.
type Decision struct {
	ID          string `gorm:"primaryKey" json:"id"`
	ComplaintID string `gorm:"type:text;not null;index:idx_decision_complaint" json:"complaint_id"`
	// EscalationID links back to the originating escalation, if any.
	EscalationID *string `gorm:"type:text;index" json:"escalation_id,omitempty"`

	SenderID     string `gorm:"type:text;not null" json:"sender_id"`
	SenderRole   Role   `gorm:"type:text;not null" json:"sender_role"`
	ReceiverID   string `gorm:"type:text;not null;index" json:"receiver_id"`
	ReceiverRole Role   `gorm:"type:text;not null" json:"receiver_role"`

	DecisionText string         `gorm:"type:text;not null" json:"decision_text"`
	Status       DecisionStatus `gorm:"type:text;not null;index:idx_decision_complaint" json:"status"`

	// Outcome is set only on final decisions created by a resolve action:
	// resolved or rejected. Keeps the complaint status derivable from the
	// latest ledger row alone.
	Outcome *ComplaintStatus `gorm:"type:text" json:"outcome,omitempty"`

	// Return path for a later send_back, fixed at creation.
	ReturnToID   string `gorm:"type:text;not null" json:"return_to_id"`
	ReturnToRole Role   `gorm:"type:text;not null" json:"return_to_role"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func (d *Decision) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}
