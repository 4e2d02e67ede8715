package services

import (
	"time"

	"legal_office_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// GetUnread returns the firm's latest unread notifications. Notifications
// with a nil user target every member of the firm.
func (s *NotificationService) GetUnread(firmID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var notifications []models.Notification
	err := s.DB.Where("firm_id = ? AND read_at IS NULL", firmID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(firmID string, notificationID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND firm_id = ?", notificationID, firmID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(firmID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("firm_id = ? AND read_at IS NULL", firmID).
		Update("read_at", now).Error
}

func (s *NotificationService) UnreadCount(firmID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("firm_id = ? AND read_at IS NULL", firmID).
		Count(&count).Error
	return count, err
}
