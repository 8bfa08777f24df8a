package storage

import (
	"context"

	"smartgriev/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Service) SaveNotification(ctx context.Context, n *models.Notification) error {
	return translate(s.DB.WithContext(ctx).Create(n).Error)
}

// GetNotificationsForUser returns at most limit notifications, newest first.
func (s *Service) GetNotificationsForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead sets is_read on a notification owned by userID. A
// notification owned by someone else is reported as ErrNotFound.
func (s *Service) MarkNotificationRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	var n models.Notification
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error
	if err != nil {
		return nil, translate(err)
	}

	if err := s.DB.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	return &n, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// GetProfileNames maps profile IDs to display names. IDs without a profile
// are absent from the result.
func (s *Service) GetProfileNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var profiles []models.Profile
	err := s.DB.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		names[p.ID] = p.Name
	}
	return names, nil
}

// SaveProfile inserts or fully replaces a profile.
func (s *Service) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return s.DB.WithContext(ctx).Save(profile).Error
}

func (s *Service) CreateAccount(ctx context.Context, account *models.Account) error {
	return translate(s.DB.WithContext(ctx).Create(account).Error)
}

func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (s *Service) GetDepartments(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// SaveDepartments upserts departments by name.
func (s *Service) SaveDepartments(ctx context.Context, departments []models.Department) error {
	if len(departments) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "keywords", "default_priority"}),
		}).
		Create(&departments).Error
}
