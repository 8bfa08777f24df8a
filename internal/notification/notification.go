// Package notification serves a user's notification records.
package notification

import (
	"context"
	"errors"

	"smartgriev/backend/internal/apperr"
	"smartgriev/backend/internal/config"
	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/storage"
)

// Service lists and acknowledges a user's notifications.
type Service struct {
	Storage storage.Storage
	Limit   int
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s, Limit: config.NotificationListLimit}
}

// List returns the user's most recent notifications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.Storage.GetNotificationsForUser(ctx, userID, s.Limit)
	if err != nil {
		return nil, apperr.Persistence("failed to load notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read. Notifications of
// other users are reported as not found.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := s.Storage.MarkNotificationRead(ctx, id, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Notification not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to update notification", err)
	}
	return n, nil
}
