package repositories

import (
	"context"

	"docvault/models"

	"gorm.io/gorm"
)

type GormThumbnailTaskRepository struct {
	db *gorm.DB
}

func NewGormThumbnailTaskRepository(db *gorm.DB) *GormThumbnailTaskRepository {
	return &GormThumbnailTaskRepository{db: db}
}

func (r *GormThumbnailTaskRepository) Create(_ context.Context, tx *gorm.DB, task *models.ThumbnailTask) error {
	return useTx(r.db, tx).Create(task).Error
}

func (r *GormThumbnailTaskRepository) ListPending(_ context.Context, tx *gorm.DB, limit int) ([]models.ThumbnailTask, error) {
	var tasks []models.ThumbnailTask
	err := useTx(r.db, tx).Where("status = ? AND retry_count < max_retries", "pending").
		Order("created_at ASC").Limit(limit).Find(&tasks).Error
	return tasks, err
}

func (r *GormThumbnailTaskRepository) UpdateByID(_ context.Context, tx *gorm.DB, taskID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.ThumbnailTask{}).Where("id = ?", taskID).Updates(updates).Error
}
