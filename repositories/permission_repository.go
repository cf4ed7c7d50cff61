package repositories

import (
	"context"

	"docvault/models"

	"gorm.io/gorm"
)

type GormPermissionRepository struct {
	db *gorm.DB
}

func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) ListByResource(_ context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint) ([]models.PermissionEntry, error) {
	var entries []models.PermissionEntry
	err := useTx(r.db, tx).Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *GormPermissionRepository) GetByResourceAndUser(_ context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint, userID uint) (models.PermissionEntry, error) {
	var entry models.PermissionEntry
	err := useTx(r.db, tx).
		Where("resource_type = ? AND resource_id = ? AND user_id = ?", resourceType, resourceID, userID).
		First(&entry).Error
	return entry, err
}

func (r *GormPermissionRepository) GetByResourceAndRole(_ context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint, role string) (models.PermissionEntry, error) {
	var entry models.PermissionEntry
	err := useTx(r.db, tx).
		Where("resource_type = ? AND resource_id = ? AND role = ? AND user_id IS NULL", resourceType, resourceID, role).
		First(&entry).Error
	return entry, err
}

func (r *GormPermissionRepository) GetByID(_ context.Context, tx *gorm.DB, entryID uint) (models.PermissionEntry, error) {
	var entry models.PermissionEntry
	err := useTx(r.db, tx).Where("id = ?", entryID).First(&entry).Error
	return entry, err
}

func (r *GormPermissionRepository) Create(_ context.Context, tx *gorm.DB, entry *models.PermissionEntry) error {
	return useTx(r.db, tx).Create(entry).Error
}

func (r *GormPermissionRepository) UpdateByID(_ context.Context, tx *gorm.DB, entryID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.PermissionEntry{}).Where("id = ?", entryID).Updates(updates).Error
}

func (r *GormPermissionRepository) DeleteByID(_ context.Context, tx *gorm.DB, entryID uint) error {
	return useTx(r.db, tx).Where("id = ?", entryID).Delete(&models.PermissionEntry{}).Error
}

func (r *GormPermissionRepository) DeleteByResource(_ context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint) error {
	return useTx(r.db, tx).Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Delete(&models.PermissionEntry{}).Error
}
