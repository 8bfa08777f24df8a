package models

import "time"

// Attachment is a file reference stored next to a complaint. This service
// only reads attachments.
type Attachment struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	ComplaintID string    `gorm:"type:text;not null;index" json:"complaint_id"`
	FileName    string    `gorm:"type:text" json:"file_name"`
	FileURL     string    `gorm:"type:text" json:"file_url"`
	ContentType string    `gorm:"type:text" json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "complaint_attachments"
}
