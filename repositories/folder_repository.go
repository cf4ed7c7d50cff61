package repositories

import (
	"context"

	"docvault/models"

	"gorm.io/gorm"
)

type GormFolderRepository struct {
	db *gorm.DB
}

func NewGormFolderRepository(db *gorm.DB) *GormFolderRepository {
	return &GormFolderRepository{db: db}
}

func (r *GormFolderRepository) GetByID(_ context.Context, tx *gorm.DB, folderID uint) (models.Folder, error) {
	var folder models.Folder
	err := useTx(r.db, tx).Where("id = ?", folderID).First(&folder).Error
	return folder, err
}

func (r *GormFolderRepository) Create(_ context.Context, tx *gorm.DB, folder *models.Folder) error {
	return useTx(r.db, tx).Create(folder).Error
}

func (r *GormFolderRepository) ListByParent(_ context.Context, tx *gorm.DB, departmentID uint, parentID *uint) ([]models.Folder, error) {
	db := useTx(r.db, tx).Model(&models.Folder{}).Where("department_id = ?", departmentID)
	if parentID == nil {
		db = db.Where("parent_id IS NULL")
	} else {
		db = db.Where("parent_id = ?", *parentID)
	}

	var folders []models.Folder
	err := db.Order("name ASC").Find(&folders).Error
	return folders, err
}

func (r *GormFolderRepository) ListChildren(_ context.Context, tx *gorm.DB, folderID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := useTx(r.db, tx).Where("parent_id = ?", folderID).Find(&folders).Error
	return folders, err
}

func (r *GormFolderRepository) CountByParentAndName(_ context.Context, tx *gorm.DB, departmentID uint, parentID *uint, name string, excludeID uint) (int64, error) {
	db := useTx(r.db, tx).Model(&models.Folder{}).Where("department_id = ? AND name = ?", departmentID, name)
	if parentID == nil {
		db = db.Where("parent_id IS NULL")
	} else {
		db = db.Where("parent_id = ?", *parentID)
	}
	if excludeID > 0 {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *GormFolderRepository) CountChildren(_ context.Context, tx *gorm.DB, folderID uint) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.Folder{}).Where("parent_id = ?", folderID).Count(&count).Error
	return count, err
}

func (r *GormFolderRepository) CountByDepartment(_ context.Context, tx *gorm.DB, departmentID uint) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.Folder{}).Where("department_id = ?", departmentID).Count(&count).Error
	return count, err
}

func (r *GormFolderRepository) UpdateByID(_ context.Context, tx *gorm.DB, folderID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Folder{}).Where("id = ?", folderID).Updates(updates).Error
}

func (r *GormFolderRepository) SoftDeleteByID(_ context.Context, tx *gorm.DB, folderID uint) error {
	return useTx(r.db, tx).Where("id = ?", folderID).Delete(&models.Folder{}).Error
}
