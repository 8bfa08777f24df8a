package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"smartgriev/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MemoryStorage is a process-local Storage. A single lock guards the data:
// reads share it, writes and whole transactions hold it exclusively, so a
// rollback can only discard the transaction's own writes and no reader sees
// a transaction before it commits.
type MemoryStorage struct {
	// Redis, when set, receives notification events like Service does.
	Redis *redis.Client

	state *memoryState
	// inTx marks the view handed to a transaction; the lock is already held.
	inTx bool
}

type memoryState struct {
	gate      sync.RWMutex
	data      memoryData
	published []models.Notification
}

type memoryData struct {
	complaints    map[string]models.Complaint
	order         []string
	history       []models.HistoryEntry
	attachments   []models.Attachment
	notifications []models.Notification
	profiles      map[string]models.Profile
	accounts      map[string]models.Account
	departments   []models.Department
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		state: &memoryState{
			data: memoryData{
				complaints: make(map[string]models.Complaint),
				profiles:   make(map[string]models.Profile),
				accounts:   make(map[string]models.Account),
			},
		},
	}
}

func (d memoryData) clone() memoryData {
	c := memoryData{
		complaints:    make(map[string]models.Complaint, len(d.complaints)),
		order:         append([]string(nil), d.order...),
		history:       append([]models.HistoryEntry(nil), d.history...),
		attachments:   append([]models.Attachment(nil), d.attachments...),
		notifications: append([]models.Notification(nil), d.notifications...),
		profiles:      make(map[string]models.Profile, len(d.profiles)),
		accounts:      make(map[string]models.Account, len(d.accounts)),
		departments:   append([]models.Department(nil), d.departments...),
	}
	for k, v := range d.complaints {
		c.complaints[k] = v
	}
	for k, v := range d.profiles {
		c.profiles[k] = v
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	return c
}

// lock takes the store lock for writing and returns the release func.
func (m *MemoryStorage) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.state.gate.Lock()
	return m.state.gate.Unlock
}

func (m *MemoryStorage) rlock() func() {
	if m.inTx {
		return func() {}
	}
	m.state.gate.RLock()
	return m.state.gate.RUnlock
}

// Transaction holds the store lock while fn runs and restores the snapshot
// taken at the start if fn fails. Nested calls join the outer transaction.
func (m *MemoryStorage) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.inTx {
		return fn(m)
	}

	m.state.gate.Lock()
	defer m.state.gate.Unlock()

	snapshot := m.state.data.clone()
	tx := &MemoryStorage{Redis: m.Redis, state: m.state, inTx: true}
	if err := fn(tx); err != nil {
		m.state.data = snapshot
		return err
	}
	return nil
}

func (m *MemoryStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer m.lock()()

	if _, exists := m.state.data.complaints[complaint.ID]; exists {
		return ErrDuplicate
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	m.state.data.complaints[complaint.ID] = *complaint
	m.state.data.order = append(m.state.data.order, complaint.ID)
	return nil
}

func (m *MemoryStorage) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	c, ok := m.state.data.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// LockComplaint is GetComplaint: a transaction already holds the store lock.
func (m *MemoryStorage) LockComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	return m.GetComplaint(ctx, id)
}

func (m *MemoryStorage) UpdateComplaintStatus(ctx context.Context, complaint *models.Complaint) error {
	return m.updateComplaint(ctx, complaint.ID, func(c *models.Complaint) {
		c.Status = complaint.Status
		c.DateUpdated = complaint.DateUpdated
	})
}

func (m *MemoryStorage) UpdateClassification(ctx context.Context, complaint *models.Complaint) error {
	return m.updateComplaint(ctx, complaint.ID, func(c *models.Complaint) {
		c.Department = complaint.Department
		c.Priority = complaint.Priority
		c.ConfidenceScore = complaint.ConfidenceScore
		c.NLPAnalysis = complaint.NLPAnalysis
		c.DateUpdated = complaint.DateUpdated
	})
}

func (m *MemoryStorage) updateComplaint(ctx context.Context, id string, apply func(c *models.Complaint)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer m.lock()()

	c, ok := m.state.data.complaints[id]
	if !ok {
		return ErrNotFound
	}
	apply(&c)
	m.state.data.complaints[id] = c
	return nil
}

func (m *MemoryStorage) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	complaints := []models.Complaint{}
	for _, id := range m.state.data.order {
		c := m.state.data.complaints[id]
		if filter.Matches(&c) {
			complaints = append(complaints, c)
		}
	}
	sort.SliceStable(complaints, func(i, j int) bool {
		if !complaints[i].DateSubmitted.Equal(complaints[j].DateSubmitted) {
			return complaints[i].DateSubmitted.After(complaints[j].DateSubmitted)
		}
		return complaints[i].ID > complaints[j].ID
	})
	return complaints, nil
}

func (m *MemoryStorage) LastComplaintID(ctx context.Context, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer m.rlock()()

	for i := len(m.state.data.order) - 1; i >= 0; i-- {
		if strings.HasPrefix(m.state.data.order[i], prefix) {
			return m.state.data.order[i], nil
		}
	}
	return "", nil
}

func (m *MemoryStorage) SaveHistory(ctx context.Context, entry *models.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	defer m.lock()()
	m.state.data.history = append(m.state.data.history, *entry)
	return nil
}

func (m *MemoryStorage) GetHistory(ctx context.Context, complaintID string) ([]models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	// Walk backwards so entries sharing a timestamp stay newest first.
	history := []models.HistoryEntry{}
	for i := len(m.state.data.history) - 1; i >= 0; i-- {
		if m.state.data.history[i].ComplaintID == complaintID {
			history = append(history, m.state.data.history[i])
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	return history, nil
}

// AddAttachment stores an attachment row. The service never writes
// attachments; this exists to seed data.
func (m *MemoryStorage) AddAttachment(a models.Attachment) {
	defer m.lock()()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	m.state.data.attachments = append(m.state.data.attachments, a)
}

func (m *MemoryStorage) GetAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	attachments := []models.Attachment{}
	for _, a := range m.state.data.attachments {
		if a.ComplaintID == complaintID {
			attachments = append(attachments, a)
		}
	}
	return attachments, nil
}

func (m *MemoryStorage) SaveNotification(ctx context.Context, n *models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	defer m.lock()()
	m.state.data.notifications = append(m.state.data.notifications, *n)
	return nil
}

func (m *MemoryStorage) GetNotificationsForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	notifications := []models.Notification{}
	for i := len(m.state.data.notifications) - 1; i >= 0; i-- {
		if m.state.data.notifications[i].UserID == userID {
			notifications = append(notifications, m.state.data.notifications[i])
		}
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (m *MemoryStorage) MarkNotificationRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.lock()()

	for i := range m.state.data.notifications {
		n := &m.state.data.notifications[i]
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			out := *n
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// PublishNotification records the event and forwards it to Redis when set.
func (m *MemoryStorage) PublishNotification(ctx context.Context, n *models.Notification) error {
	unlock := m.lock()
	m.state.published = append(m.state.published, *n)
	unlock()
	return publishNotification(ctx, m.Redis, n)
}

// Published returns every notification passed to PublishNotification.
func (m *MemoryStorage) Published() []models.Notification {
	defer m.rlock()()
	return append([]models.Notification(nil), m.state.published...)
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	p, ok := m.state.data.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) GetProfileNames(ctx context.Context, ids []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if p, ok := m.state.data.profiles[id]; ok {
			names[id] = p.Name
		}
	}
	return names, nil
}

func (m *MemoryStorage) SaveProfile(ctx context.Context, profile *models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	defer m.lock()()
	m.state.data.profiles[profile.ID] = *profile
	return nil
}

func (m *MemoryStorage) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer m.lock()()

	if _, exists := m.state.data.accounts[account.Email]; exists {
		return ErrDuplicate
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	m.state.data.accounts[account.Email] = *account
	return nil
}

func (m *MemoryStorage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()

	a, ok := m.state.data.accounts[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStorage) GetDepartments(ctx context.Context) ([]models.Department, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer m.rlock()()
	return append([]models.Department{}, m.state.data.departments...), nil
}

func (m *MemoryStorage) SaveDepartments(ctx context.Context, departments []models.Department) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer m.lock()()

	for _, d := range departments {
		replaced := false
		for i := range m.state.data.departments {
			if m.state.data.departments[i].Name == d.Name {
				d.ID = m.state.data.departments[i].ID
				m.state.data.departments[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			d.ID = uint(len(m.state.data.departments) + 1)
			m.state.data.departments = append(m.state.data.departments, d)
		}
	}
	return nil
}
