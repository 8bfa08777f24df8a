package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationComplaintSubmitted = "complaint_submitted"
	NotificationStatusUpdated      = "status_updated"
)

// Notification is a user-facing event record. Only IsRead ever changes.
type Notification struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"type:text;not null;index:idx_notification_user_created" json:"user_id"`
	ComplaintID string    `gorm:"type:text;not null;index" json:"complaint_id"`
	Type        string    `gorm:"type:text;not null" json:"type"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"index:idx_notification_user_created" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
