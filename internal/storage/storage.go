package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smartgriev/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Storage is the persistence boundary used by every service. All methods
// honour ctx cancellation.
type Storage interface {
	// Transaction runs fn against a transactional Storage. If fn returns an
	// error, nothing fn wrote is kept.
	Transaction(ctx context.Context, fn func(tx Storage) error) error

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	// LockComplaint loads a complaint and holds it for update until the
	// surrounding transaction ends.
	LockComplaint(ctx context.Context, id string) (*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, complaint *models.Complaint) error
	UpdateClassification(ctx context.Context, complaint *models.Complaint) error
	// ListComplaints returns matches newest first by submission date.
	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	LastComplaintID(ctx context.Context, prefix string) (string, error)

	SaveHistory(ctx context.Context, entry *models.HistoryEntry) error
	// GetHistory returns entries newest first.
	GetHistory(ctx context.Context, complaintID string) ([]models.HistoryEntry, error)
	GetAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error)

	SaveNotification(ctx context.Context, n *models.Notification) error
	GetNotificationsForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) (*models.Notification, error)
	PublishNotification(ctx context.Context, n *models.Notification) error

	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileNames(ctx context.Context, ids []string) (map[string]string, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error

	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	GetDepartments(ctx context.Context) ([]models.Department, error)
	SaveDepartments(ctx context.Context, departments []models.Department) error
}

// Service implements Storage on PostgreSQL through gorm. Redis is optional
// and only used for notification events.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&models.Complaint{},
		&models.HistoryEntry{},
		&models.Notification{},
		&models.Attachment{},
		&models.Profile{},
		&models.Account{},
		&models.Department{},
		&models.ComplaintSequence{},
	}
}

// Migrate creates or updates the schema.
func (s *Service) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(Models()...)
}

func (s *Service) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis})
	})
}

// PublishNotification publishes the notification as JSON on the recipient's
// channel. Without Redis it is a no-op.
func (s *Service) PublishNotification(ctx context.Context, n *models.Notification) error {
	return publishNotification(ctx, s.Redis, n)
}

// NotificationChannel is the pub/sub channel for a user's notifications.
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}

func publishNotification(ctx context.Context, rdb *redis.Client, n *models.Notification) error {
	if rdb == nil {
		return nil
	}

	msgBytes, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if err := rdb.Publish(ctx, NotificationChannel(n.UserID), string(msgBytes)).Err(); err != nil {
		return fmt.Errorf("publish notification %s: %w", n.ID, err)
	}
	return nil
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
