package complaint_test

import (
	"context"

	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

// Transaction runs fn against the mock itself so expectations set on the
// write methods apply inside the transaction too.
func (m *MockStorage) Transaction(ctx context.Context, fn func(tx storage.Storage) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockStorage) LockComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) UpdateClassification(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(ctx, filter)
	c, _ := args.Get(0).([]models.Complaint)
	return c, args.Error(1)
}

func (m *MockStorage) LastComplaintID(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) SaveHistory(ctx context.Context, entry *models.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStorage) GetHistory(ctx context.Context, complaintID string) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, complaintID)
	h, _ := args.Get(0).([]models.HistoryEntry)
	return h, args.Error(1)
}

func (m *MockStorage) GetAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	args := m.Called(ctx, complaintID)
	a, _ := args.Get(0).([]models.Attachment)
	return a, args.Error(1)
}

func (m *MockStorage) SaveNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStorage) GetNotificationsForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	n, _ := args.Get(0).([]models.Notification)
	return n, args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	args := m.Called(ctx, id, userID)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

func (m *MockStorage) PublishNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStorage) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockStorage) GetProfileNames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	n, _ := args.Get(0).(map[string]string)
	return n, args.Error(1)
}

func (m *MockStorage) SaveProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockStorage) CreateAccount(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStorage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *MockStorage) GetDepartments(ctx context.Context) ([]models.Department, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]models.Department)
	return d, args.Error(1)
}

func (m *MockStorage) SaveDepartments(ctx context.Context, departments []models.Department) error {
	args := m.Called(ctx, departments)
	return args.Error(0)
}

var _ storage.Storage = (*MockStorage)(nil)
