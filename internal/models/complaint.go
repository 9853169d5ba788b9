package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ComplaintStatus is the lifecycle state of a complaint. It is always
// derivable from the most recent ledger row (see status.go); the router
// keeps the two in lockstep inside each transaction.
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintAssigned   ComplaintStatus = "assigned"
	ComplaintEscalated  ComplaintStatus = "escalated"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintRejected   ComplaintStatus = "rejected"
)

// Complaint is the tracked grievance. Created by a submitter; after that,
// mutated only by the escalation router.
type Complaint struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Category    string `gorm:"type:text" json:"category"`
	// Tags are free-form labels attached at intake, stored as a
	// PostgreSQL text array.
	Tags pq.StringArray `gorm:"type:text[]" json:"tags"`

	Status       ComplaintStatus `gorm:"type:text;not null;index" json:"status"`
	DepartmentID string          `gorm:"type:text;not null;index" json:"department_id"`
	SubmitterID  string          `gorm:"type:text;not null;index" json:"submitter_id"`
	// HandlerID is set once a handler has been assigned.
	HandlerID *string `gorm:"type:text;index" json:"handler_id,omitempty"`

	ResolutionDetails *string    `gorm:"type:text" json:"resolution_details,omitempty"`
	ResolutionDate    *time.Time `json:"resolution_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Terminal reports whether the complaint has reached a final state.
func (c *Complaint) Terminal() bool {
	return c.Status == ComplaintResolved || c.Status == ComplaintRejected
}
