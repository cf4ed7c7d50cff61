package repositories

import (
	"context"

	"docvault/models"

	"gorm.io/gorm"
)

type GormDocumentVersionRepository struct {
	db *gorm.DB
}

func NewGormDocumentVersionRepository(db *gorm.DB) *GormDocumentVersionRepository {
	return &GormDocumentVersionRepository{db: db}
}

func (r *GormDocumentVersionRepository) Create(_ context.Context, tx *gorm.DB, version *models.DocumentVersion) error {
	return useTx(r.db, tx).Create(version).Error
}

func (r *GormDocumentVersionRepository) GetByID(_ context.Context, tx *gorm.DB, versionID uint) (models.DocumentVersion, error) {
	var version models.DocumentVersion
	err := useTx(r.db, tx).Where("id = ?", versionID).First(&version).Error
	return version, err
}

func (r *GormDocumentVersionRepository) ListByDocument(_ context.Context, tx *gorm.DB, documentID uint) ([]models.DocumentVersion, error) {
	var versions []models.DocumentVersion
	err := useTx(r.db, tx).Where("document_id = ?", documentID).
		Order("version_number DESC").Find(&versions).Error
	return versions, err
}

func (r *GormDocumentVersionRepository) DeleteByDocument(_ context.Context, tx *gorm.DB, documentID uint) error {
	return useTx(r.db, tx).Where("document_id = ?", documentID).Delete(&models.DocumentVersion{}).Error
}
