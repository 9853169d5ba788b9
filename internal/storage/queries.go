package storage

import (
	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"
)

// ComplaintFilter scopes a dashboard listing to what the actor is allowed
// to see. President and vice-president see everything, a department
// authority sees their department, a handler sees complaints assigned to
// them, a submitter sees their own.
type ComplaintFilter struct {
	Actor  models.Actor
	Status models.ComplaintStatus
	Page   int
	Limit  int
}

func (f *ComplaintFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = config.DefaultPageSize
	}
	if f.Limit > config.MaxPageSize {
		f.Limit = config.MaxPageSize
	}
}

// ListComplaints is a read-only paginated projection for dashboards.
func (s *Service) ListComplaints(f ComplaintFilter) ([]models.Complaint, int64, error) {
	f.normalize()

	q := s.DB.Model(&models.Complaint{})
	switch f.Actor.Role {
	case models.RolePresident, models.RoleVicePresident:
		// unrestricted
	case models.RoleAuthority:
		q = q.Where("department_id = ?", f.Actor.DepartmentID)
	case models.RoleHandler:
		q = q.Where("handler_id = ?", f.Actor.ID)
	default:
		q = q.Where("submitter_id = ?", f.Actor.ID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var complaints []models.Complaint
	err := q.Order("updated_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// ComplaintLedger returns the full escalation and decision history of a
// complaint, oldest first.
func (s *Service) ComplaintLedger(complaintID string) ([]models.Escalation, []models.Decision, error) {
	var escs []models.Escalation
	if err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").Find(&escs).Error; err != nil {
		return nil, nil, err
	}

	var decs []models.Decision
	if err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").Find(&decs).Error; err != nil {
		return nil, nil, err
	}
	return escs, decs, nil
}

// NotificationsFor lists an actor's notifications, newest first.
func (s *Service) NotificationsFor(userID string, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}

	q := s.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []models.Notification
	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}
