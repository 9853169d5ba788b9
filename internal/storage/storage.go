// Package storage is the ledger store: the only component permitted to
// touch Complaint/Escalation/Decision rows. All mutation happens through
// the transaction-scoped Ledger handed out by InTx; the close operations
// are conditional on the row still being pending, so concurrent routing
// actions on the same complaint race at commit time and exactly one wins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"complaintflow/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PendingRow is the single open ledger row of a complaint, either an
// escalation or a decision. It defines the complaint's current owner.
type PendingRow struct {
	Escalation *models.Escalation
	Decision   *models.Decision
}

// TargetID returns the user currently responsible for the complaint.
func (p *PendingRow) TargetID() string {
	if p.Escalation != nil {
		return p.Escalation.EscalatedToID
	}
	return p.Decision.ReceiverID
}

// TargetRole returns the role currently responsible for the complaint.
func (p *PendingRow) TargetRole() models.Role {
	if p.Escalation != nil {
		return p.Escalation.EscalatedToRole
	}
	return p.Decision.ReceiverRole
}

// ReturnToID returns the send_back recipient fixed at row creation.
func (p *PendingRow) ReturnToID() string {
	if p.Escalation != nil {
		return p.Escalation.ReturnToID
	}
	return p.Decision.ReturnToID
}

// ReturnToRole returns the send_back recipient role fixed at row creation.
func (p *PendingRow) ReturnToRole() models.Role {
	if p.Escalation != nil {
		return p.Escalation.ReturnToRole
	}
	return p.Decision.ReturnToRole
}

// EscalationID returns the escalation row id, or nil for decision rows.
// Used to link a resolution decision back to its originating escalation.
func (p *PendingRow) EscalationID() *string {
	if p.Escalation != nil {
		id := p.Escalation.ID
		return &id
	}
	return nil
}

// Ledger is the mutation contract the router executes against. Outside
// a transaction it reads committed state; inside InTx every call runs on
// the same database transaction and commits or rolls back as one unit.
type Ledger interface {
	ComplaintByID(id string) (*models.Complaint, error)
	SaveComplaint(c *models.Complaint) error

	PendingRowFor(complaintID string) (*PendingRow, error)
	CloseEscalation(id string, status models.EscalationStatus, resolution string) (bool, error)
	CloseDecision(id string) (bool, error)
	AppendEscalation(e *models.Escalation) error
	AppendDecision(d *models.Decision) error

	AddNotification(n *models.Notification) error
	AddReport(r *models.Report) error

	UserByID(id string) (*models.User, error)
	FindRoleHolder(role models.Role, departmentID string) (*models.User, error)
}

// Storage is the full store contract: the ledger plus the transaction
// boundary and the read-only projections consumed by dashboards and the
// admin CLI.
type Storage interface {
	Ledger

	InTx(ctx context.Context, fn func(Ledger) error) error

	ListComplaints(f ComplaintFilter) ([]models.Complaint, int64, error)
	ComplaintLedger(complaintID string) ([]models.Escalation, []models.Decision, error)
	NotificationsFor(userID string, page, limit int) ([]models.Notification, int64, error)

	SaveUser(u *models.User) error
	UsersByRole(role models.Role) ([]models.User, error)
	StalePendingEscalations(olderThan time.Time) ([]models.Escalation, error)
}

// Service backs Storage with PostgreSQL (via gorm) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

// InTx runs fn against a transaction-bound ledger. fn returning an error
// rolls back every write performed through the ledger.
func (s *Service) InTx(ctx context.Context, fn func(Ledger) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis})
	})
}

func (s *Service) ComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) SaveComplaint(c *models.Complaint) error {
	return s.DB.Save(c).Error
}

// PendingRowFor returns the complaint's single pending ledger row, or nil
// when no row is open. More than one pending row means the store's core
// invariant has been violated and is reported as an error.
func (s *Service) PendingRowFor(complaintID string) (*PendingRow, error) {
	var escs []models.Escalation
	if err := s.DB.Where("complaint_id = ? AND status = ?", complaintID, models.EscalationPending).
		Find(&escs).Error; err != nil {
		return nil, err
	}

	var decs []models.Decision
	if err := s.DB.Where("complaint_id = ? AND status = ?", complaintID, models.DecisionPending).
		Find(&decs).Error; err != nil {
		return nil, err
	}

	if len(escs)+len(decs) > 1 {
		return nil, fmt.Errorf("complaint %s has %d pending ledger rows", complaintID, len(escs)+len(decs))
	}
	if len(escs) == 1 {
		return &PendingRow{Escalation: &escs[0]}, nil
	}
	if len(decs) == 1 {
		return &PendingRow{Decision: &decs[0]}, nil
	}
	return nil, nil
}

// CloseEscalation closes the row out, conditioned on it still being
// pending. Returns false when the row was already closed by a concurrent
// action, so races are detected instead of silently overwritten.
func (s *Service) CloseEscalation(id string, status models.EscalationStatus, resolution string) (bool, error) {
	res := s.DB.Model(&models.Escalation{}).
		Where("id = ? AND status = ?", id, models.EscalationPending).
		Updates(map[string]interface{}{
			"status":             status,
			"resolution_details": resolution,
			"resolved_at":        gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CloseDecision marks a pending decision final, with the same optimistic
// pending check as CloseEscalation.
func (s *Service) CloseDecision(id string) (bool, error) {
	res := s.DB.Model(&models.Decision{}).
		Where("id = ? AND status = ?", id, models.DecisionPending).
		Updates(map[string]interface{}{
			"status":      models.DecisionFinal,
			"resolved_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) AppendEscalation(e *models.Escalation) error {
	return s.DB.Create(e).Error
}

func (s *Service) AppendDecision(d *models.Decision) error {
	return s.DB.Create(d).Error
}

func (s *Service) AddNotification(n *models.Notification) error {
	return s.DB.Create(n).Error
}

func (s *Service) AddReport(r *models.Report) error {
	return s.DB.Create(r).Error
}

func (s *Service) UserByID(id string) (*models.User, error) {
	var u models.User
	err := s.DB.Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindRoleHolder returns a user holding the given role. departmentID
// narrows the search for department-scoped roles (authority, handler);
// vice-president and president are organization-wide. Returns nil when
// nobody holds the role.
func (s *Service) FindRoleHolder(role models.Role, departmentID string) (*models.User, error) {
	q := s.DB.Where("role = ?", role)
	if departmentID != "" {
		q = q.Where("department_id = ?", departmentID)
	}

	var u models.User
	err := q.Order("id asc").First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) SaveUser(u *models.User) error {
	return s.DB.Save(u).Error
}

func (s *Service) UsersByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := s.DB.Where("role = ?", role).Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// StalePendingEscalations lists pending escalation rows created before
// the cutoff. Ops tooling only; never consulted by the router.
func (s *Service) StalePendingEscalations(olderThan time.Time) ([]models.Escalation, error) {
	var escs []models.Escalation
	err := s.DB.Where("status = ? AND created_at < ?", models.EscalationPending, olderThan).
		Order("created_at asc").
		Find(&escs).Error
	if err != nil {
		return nil, err
	}
	return escs, nil
}
