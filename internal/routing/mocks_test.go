package routing_test

import (
	"context"
	"fmt"
	"time"

	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/storage"
)

// fakeStore is an in-memory storage.Storage for router tests. InTx
// snapshots the state before running the callback and restores it when
// the callback fails, mirroring the rollback semantics of the real
// store.
type fakeStore struct {
	complaints    map[string]models.Complaint
	escalations   map[string]models.Escalation
	decisions     map[string]models.Decision
	notifications []models.Notification
	reports       []models.Report
	users         map[string]models.User

	// beforeClose runs just before a close operation, letting tests
	// interleave a concurrent winner.
	beforeClose func()

	seq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		complaints:  make(map[string]models.Complaint),
		escalations: make(map[string]models.Escalation),
		decisions:   make(map[string]models.Decision),
		users:       make(map[string]models.User),
	}
}

func (s *fakeStore) addUser(id, name string, role models.Role, dept string) {
	s.users[id] = models.User{ID: id, Name: name, Email: name + "@example.edu", Role: role, DepartmentID: dept}
}

func (s *fakeStore) nextTime() time.Time {
	s.seq++
	return time.Unix(int64(1700000000+s.seq), 0)
}

func (s *fakeStore) ComplaintByID(id string) (*models.Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeStore) SaveComplaint(c *models.Complaint) error {
	if c.ID == "" {
		if err := c.BeforeCreate(nil); err != nil {
			return err
		}
		c.CreatedAt = s.nextTime()
	}
	c.UpdatedAt = s.nextTime()
	s.complaints[c.ID] = *c
	return nil
}

func (s *fakeStore) PendingRowFor(complaintID string) (*storage.PendingRow, error) {
	var rows []*storage.PendingRow
	for id := range s.escalations {
		e := s.escalations[id]
		if e.ComplaintID == complaintID && e.Status == models.EscalationPending {
			rows = append(rows, &storage.PendingRow{Escalation: &e})
		}
	}
	for id := range s.decisions {
		d := s.decisions[id]
		if d.ComplaintID == complaintID && d.Status == models.DecisionPending {
			rows = append(rows, &storage.PendingRow{Decision: &d})
		}
	}
	if len(rows) > 1 {
		return nil, fmt.Errorf("complaint %s has %d pending ledger rows", complaintID, len(rows))
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *fakeStore) CloseEscalation(id string, status models.EscalationStatus, resolution string) (bool, error) {
	if s.beforeClose != nil {
		s.beforeClose()
		s.beforeClose = nil
	}
	e, ok := s.escalations[id]
	if !ok || e.Status != models.EscalationPending {
		return false, nil
	}
	now := s.nextTime()
	e.Status = status
	e.ResolutionDetails = &resolution
	e.ResolvedAt = &now
	s.escalations[id] = e
	return true, nil
}

func (s *fakeStore) CloseDecision(id string) (bool, error) {
	if s.beforeClose != nil {
		s.beforeClose()
		s.beforeClose = nil
	}
	d, ok := s.decisions[id]
	if !ok || d.Status != models.DecisionPending {
		return false, nil
	}
	now := s.nextTime()
	d.Status = models.DecisionFinal
	d.ResolvedAt = &now
	s.decisions[id] = d
	return true, nil
}

func (s *fakeStore) AppendEscalation(e *models.Escalation) error {
	if err := e.BeforeCreate(nil); err != nil {
		return err
	}
	e.CreatedAt = s.nextTime()
	s.escalations[e.ID] = *e
	return nil
}

func (s *fakeStore) AppendDecision(d *models.Decision) error {
	if err := d.BeforeCreate(nil); err != nil {
		return err
	}
	d.CreatedAt = s.nextTime()
	s.decisions[d.ID] = *d
	return nil
}

func (s *fakeStore) AddNotification(n *models.Notification) error {
	n.CreatedAt = s.nextTime()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *fakeStore) AddReport(r *models.Report) error {
	r.CreatedAt = s.nextTime()
	s.reports = append(s.reports, *r)
	return nil
}

func (s *fakeStore) UserByID(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *fakeStore) FindRoleHolder(role models.Role, departmentID string) (*models.User, error) {
	var found *models.User
	for id := range s.users {
		u := s.users[id]
		if u.Role != role {
			continue
		}
		if departmentID != "" && u.DepartmentID != departmentID {
			continue
		}
		if found == nil || u.ID < found.ID {
			found = &u
		}
	}
	return found, nil
}

func (s *fakeStore) InTx(ctx context.Context, fn func(storage.Ledger) error) error {
	snapComplaints := make(map[string]models.Complaint, len(s.complaints))
	for k, v := range s.complaints {
		snapComplaints[k] = v
	}
	snapEscalations := make(map[string]models.Escalation, len(s.escalations))
	for k, v := range s.escalations {
		snapEscalations[k] = v
	}
	snapDecisions := make(map[string]models.Decision, len(s.decisions))
	for k, v := range s.decisions {
		snapDecisions[k] = v
	}
	snapNotifications := append([]models.Notification(nil), s.notifications...)
	snapReports := append([]models.Report(nil), s.reports...)

	if err := fn(s); err != nil {
		s.complaints = snapComplaints
		s.escalations = snapEscalations
		s.decisions = snapDecisions
		s.notifications = snapNotifications
		s.reports = snapReports
		return err
	}
	return nil
}

func (s *fakeStore) ListComplaints(f storage.ComplaintFilter) ([]models.Complaint, int64, error) {
	var out []models.Complaint
	for _, c := range s.complaints {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) ComplaintLedger(complaintID string) ([]models.Escalation, []models.Decision, error) {
	var escs []models.Escalation
	for _, e := range s.escalations {
		if e.ComplaintID == complaintID {
			escs = append(escs, e)
		}
	}
	var decs []models.Decision
	for _, d := range s.decisions {
		if d.ComplaintID == complaintID {
			decs = append(decs, d)
		}
	}
	return escs, decs, nil
}

func (s *fakeStore) NotificationsFor(userID string, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) SaveUser(u *models.User) error {
	if u.ID == "" {
		if err := u.BeforeCreate(nil); err != nil {
			return err
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *fakeStore) UsersByRole(role models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) StalePendingEscalations(olderThan time.Time) ([]models.Escalation, error) {
	var out []models.Escalation
	for _, e := range s.escalations {
		if e.Status == models.EscalationPending && e.CreatedAt.Before(olderThan) {
			out = append(out, e)
		}
	}
	return out, nil
}

// recordingNotifier captures post-commit publish calls.
type recordingNotifier struct {
	published []models.Notification
}

func (n *recordingNotifier) Publish(ctx context.Context, note models.Notification) error {
	n.published = append(n.published, note)
	return nil
}
