package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account in the hierarchy. Accounts are owned by the external
// identity provider; the core only reads them to resolve routing targets
// and never mutates them as part of a transition.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:text;not null" json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Role         Role   `gorm:"type:text;not null;index" json:"role"`
	DepartmentID string `gorm:"type:text;index" json:"department_id"`
}

// BeforeCreate generates a UUID for the user if the ID is not yet set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
