package repositories

import (
	"context"
	"time"

	"docvault/models"

	"gorm.io/gorm"
)

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(_ context.Context, tx *gorm.DB, notification *models.Notification) error {
	return useTx(r.db, tx).Create(notification).Error
}

func (r *GormNotificationRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint, unreadOnly bool, offset, limit int) ([]models.Notification, int64, error) {
	db := useTx(r.db, tx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = 0")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}

func (r *GormNotificationRepository) CountUnread(_ context.Context, tx *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).Count(&count).Error
	return count, err
}

func (r *GormNotificationRepository) MarkRead(_ context.Context, tx *gorm.DB, notificationID uint, userID uint, readAt time.Time) error {
	return useTx(r.db, tx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}

func (r *GormNotificationRepository) MarkAllRead(_ context.Context, tx *gorm.DB, userID uint, readAt time.Time) error {
	return useTx(r.db, tx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}

func (r *GormNotificationRepository) DeleteByIDAndUser(_ context.Context, tx *gorm.DB, notificationID uint, userID uint) error {
	return useTx(r.db, tx).Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{}).Error
}

func (r *GormNotificationRepository) DeleteReadBefore(_ context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	result := useTx(r.db, tx).Where("is_read = 1 AND read_at < ?", cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
