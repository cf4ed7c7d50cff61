package repositories

import (
	"context"
	"time"

	"docvault/models"

	"gorm.io/gorm"
)

type GormAuditLogRepository struct {
	db *gorm.DB
}

func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

func (r *GormAuditLogRepository) Create(_ context.Context, tx *gorm.DB, entry *models.AuditLogEntry) error {
	return useTx(r.db, tx).Create(entry).Error
}

func (r *GormAuditLogRepository) List(_ context.Context, tx *gorm.DB, in AuditListInput) ([]models.AuditLogEntry, int64, error) {
	db := useTx(r.db, tx).Model(&models.AuditLogEntry{})
	if in.UserID > 0 {
		db = db.Where("user_id = ?", in.UserID)
	}
	if in.Action != "" {
		db = db.Where("action = ?", in.Action)
	}
	if in.ResourceType != "" {
		db = db.Where("resource_type = ?", in.ResourceType)
	}
	if in.DepartmentID > 0 {
		db = db.Where("department_id = ?", in.DepartmentID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLogEntry
	err := db.Order("created_at DESC").Offset(in.Offset).Limit(in.Limit).Find(&entries).Error
	return entries, total, err
}

func (r *GormAuditLogRepository) DeleteBefore(_ context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	result := useTx(r.db, tx).Where("created_at < ?", cutoff).Delete(&models.AuditLogEntry{})
	return result.RowsAffected, result.Error
}
