package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionSubmitted     = "Complaint Submitted"
	ActionStatusUpdated = "Status Updated"
	ActionReclassified  = "Complaint Reclassified"
)

// HistoryEntry is one append-only audit record for a complaint.
// StatusFrom is nil only on the creation entry.
type HistoryEntry struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ComplaintID string    `gorm:"type:text;not null;index" json:"complaint_id"`
	UserID      string    `gorm:"type:text;not null" json:"user_id"`
	Action      string    `gorm:"type:text;not null" json:"action"`
	StatusFrom  *string   `gorm:"type:text" json:"status_from"`
	StatusTo    string    `gorm:"type:text;not null" json:"status_to"`
	Comment     string    `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (HistoryEntry) TableName() string {
	return "complaint_history"
}

// BeforeCreate assigns a UUID when the entry has none.
func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return
}
