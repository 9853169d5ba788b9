package models

import "gorm.io/gorm"

// Notification is a write-only side effect of routing actions. Delivery
// and mark-read live in external services; the core only produces rows.
type Notification struct {
	gorm.Model

	UserID      string `gorm:"type:text;not null;index" json:"user_id"`
	ComplaintID string `gorm:"type:text;not null;index" json:"complaint_id"`
	Description string `gorm:"type:text;not null" json:"description"`
	IsRead      bool   `gorm:"not null;default:false" json:"is_read"`
}

// Report is the immutable audit artifact recorded for the president
// after every routing action. Never updated or deleted.
type Report struct {
	gorm.Model

	ComplaintID string `gorm:"type:text;not null;index" json:"complaint_id"`
	// HandlerID is the actor who triggered the routing action.
	HandlerID     string `gorm:"type:text;not null" json:"handler_id"`
	RecipientID   string `gorm:"type:text;not null;index" json:"recipient_id"`
	ReportType    string `gorm:"type:text;not null" json:"report_type"`
	ReportContent string `gorm:"type:text;not null" json:"report_content"`
}
