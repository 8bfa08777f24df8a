package storage

import (
	"context"

	"smartgriev/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	return translate(s.DB.WithContext(ctx).Create(complaint).Error)
}

func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&complaint).Error; err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

// LockComplaint issues SELECT ... FOR UPDATE; call it inside Transaction.
func (s *Service) LockComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

func (s *Service) UpdateComplaintStatus(ctx context.Context, complaint *models.Complaint) error {
	return s.updateComplaint(ctx, complaint.ID, map[string]interface{}{
		"status":       complaint.Status,
		"date_updated": complaint.DateUpdated,
	})
}

// UpdateClassification writes the classifier-derived columns. A struct update
// is used so the nlp_analysis serializer applies.
func (s *Service) UpdateClassification(ctx context.Context, complaint *models.Complaint) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", complaint.ID).
		Select("department", "priority", "confidence_score", "nlp_analysis", "date_updated").
		Updates(complaint)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) updateComplaint(ctx context.Context, id string, fields map[string]interface{}) error {
	result := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	if filter.MatchNone {
		return complaints, nil
	}

	query := s.DB.WithContext(ctx).Model(&models.Complaint{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}

	if err := query.Order("date_submitted desc").Order("id desc").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// LastComplaintID returns the most recently created ID with the given
// prefix, or "" when there is none.
func (s *Service) LastComplaintID(ctx context.Context, prefix string) (string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id LIKE ?", prefix+"%").
		Order("created_at desc").
		Order("id desc").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func (s *Service) SaveHistory(ctx context.Context, entry *models.HistoryEntry) error {
	return translate(s.DB.WithContext(ctx).Create(entry).Error)
}

func (s *Service) GetHistory(ctx context.Context, complaintID string) ([]models.HistoryEntry, error) {
	history := []models.HistoryEntry{}
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at desc").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Service) GetAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
