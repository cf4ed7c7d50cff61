package repositories

import (
	"context"

	"docvault/models"

	"gorm.io/gorm"
)

type GormDepartmentRepository struct {
	db *gorm.DB
}

func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

func (r *GormDepartmentRepository) Create(_ context.Context, tx *gorm.DB, department *models.Department) error {
	return useTx(r.db, tx).Create(department).Error
}

func (r *GormDepartmentRepository) GetByID(_ context.Context, tx *gorm.DB, departmentID uint) (models.Department, error) {
	var department models.Department
	err := useTx(r.db, tx).Where("id = ?", departmentID).First(&department).Error
	return department, err
}

func (r *GormDepartmentRepository) CountByName(_ context.Context, tx *gorm.DB, name string, excludeID uint) (int64, error) {
	db := useTx(r.db, tx).Model(&models.Department{}).Where("name = ?", name)
	if excludeID > 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *GormDepartmentRepository) List(_ context.Context, tx *gorm.DB, activeOnly bool) ([]models.Department, error) {
	db := useTx(r.db, tx).Model(&models.Department{})
	if activeOnly {
		db = db.Where("is_active = 1")
	}
	var departments []models.Department
	err := db.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *GormDepartmentRepository) UpdateByID(_ context.Context, tx *gorm.DB, departmentID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Department{}).Where("id = ?", departmentID).Updates(updates).Error
}
