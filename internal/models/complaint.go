package models

import (
	"time"

	"smartgriev/backend/internal/nlp"
)

const (
	StatusSubmitted  = "Submitted"
	StatusAssigned   = "Assigned"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusRejected   = "Rejected"
	StatusClosed     = "Closed"
)

// Statuses lists every status a complaint may hold, in lifecycle order.
var Statuses = []string{
	StatusSubmitted,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
	StatusClosed,
}

// IsKnownStatus reports whether s is one of Statuses.
func IsKnownStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Complaint is a citizen grievance tracked through the status lifecycle.
// ID is assigned once by the identifier generator and never changes.
type Complaint struct {
	ID              string        `gorm:"primaryKey;type:text" json:"id"`
	UserID          string        `gorm:"type:text;not null;index" json:"user_id"`
	Title           string        `gorm:"type:text;not null" json:"title"`
	Description     string        `gorm:"type:text;not null" json:"description"`
	Location        string        `gorm:"type:text;not null" json:"location"`
	Status          string        `gorm:"type:text;not null;index" json:"status"`
	Department      string        `gorm:"type:text;index" json:"department"`
	Priority        string        `gorm:"type:text" json:"priority"`
	ConfidenceScore float64       `json:"confidence_score"`
	NLPAnalysis     *nlp.Analysis `gorm:"type:jsonb;serializer:json" json:"nlp_analysis"`
	DateSubmitted   time.Time     `gorm:"not null;index" json:"date_submitted"`
	DateUpdated     time.Time     `gorm:"not null" json:"date_updated"`
	CreatedAt       time.Time     `gorm:"index" json:"created_at"`

	// UserName is the submitter's display name, filled in on read.
	UserName string `gorm:"-" json:"userName,omitempty"`
}

// ComplaintDetail is a complaint with its audit trail and attachments.
type ComplaintDetail struct {
	Complaint
	History     []HistoryEntry `json:"history"`
	Attachments []Attachment   `json:"attachments"`
}

// ComplaintFilter narrows a complaint listing. The zero value matches all.
type ComplaintFilter struct {
	UserID     string
	Department *string
	// MatchNone short-circuits to an empty result.
	MatchNone bool
}

// Matches reports whether c passes the filter.
func (f ComplaintFilter) Matches(c *Complaint) bool {
	if f.MatchNone {
		return false
	}
	if f.UserID != "" && c.UserID != f.UserID {
		return false
	}
	if f.Department != nil && c.Department != *f.Department {
		return false
	}
	return true
}
