package models

import "github.com/lib/pq"

// Department is a routing target. Keywords feed the classifier rules.
type Department struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Code            string         `gorm:"type:text" json:"code"`
	Keywords        pq.StringArray `gorm:"type:text[]" json:"keywords"`
	DefaultPriority string         `gorm:"type:text" json:"default_priority"`
}

// ComplaintSequence is the per-year counter row behind complaint IDs.
type ComplaintSequence struct {
	Year  int   `gorm:"primaryKey;autoIncrement:false"`
	Value int64 `gorm:"not null"`
}

func (ComplaintSequence) TableName() string {
	return "complaint_sequences"
}
