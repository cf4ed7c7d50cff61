package repositories

import (
	"context"
	"time"

	"docvault/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormDocumentRepository struct {
	db *gorm.DB
}

func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) Create(_ context.Context, tx *gorm.DB, document *models.Document) error {
	return useTx(r.db, tx).Create(document).Error
}

func (r *GormDocumentRepository) GetByID(_ context.Context, tx *gorm.DB, documentID uint) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).Where("id = ?", documentID).First(&document).Error
	return document, err
}

func (r *GormDocumentRepository) GetByIDForUpdate(_ context.Context, tx *gorm.DB, documentID uint) (models.Document, error) {
	var document models.Document
	err := useTx(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", documentID).First(&document).Error
	return document, err
}

func (r *GormDocumentRepository) ListByFolder(_ context.Context, tx *gorm.DB, in ListDocumentsInput) ([]models.Document, error) {
	sortBy := in.SortBy
	switch sortBy {
	case "title", "file_size", "created_at", "updated_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if in.Order == "asc" {
		order = "ASC"
	}

	var documents []models.Document
	err := useTx(r.db, tx).Where("folder_id = ?", in.FolderID).
		Order(sortBy + " " + order).
		Offset(in.Offset).Limit(in.Limit).
		Find(&documents).Error
	return documents, err
}

func (r *GormDocumentRepository) CountByFolder(_ context.Context, tx *gorm.DB, folderID uint) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.Document{}).Where("folder_id = ?", folderID).Count(&count).Error
	return count, err
}

func (r *GormDocumentRepository) CountByFolderAndTitle(_ context.Context, tx *gorm.DB, folderID uint, title string, excludeID uint) (int64, error) {
	db := useTx(r.db, tx).Model(&models.Document{}).Where("folder_id = ? AND title = ?", folderID, title)
	if excludeID > 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *GormDocumentRepository) Search(_ context.Context, tx *gorm.DB, in SearchDocumentsInput) ([]models.Document, int64, error) {
	db := useTx(r.db, tx).Model(&models.Document{}).Where("department_id = ?", in.DepartmentID)
	if in.Query != "" {
		like := "%" + in.Query + "%"
		db = db.Where("title LIKE ? OR original_name LIKE ?", like, like)
	}
	if in.Tag != "" {
		db = db.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", in.Tag)
	}
	if in.FileType != "" {
		db = db.Where("file_type = ?", in.FileType)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var documents []models.Document
	err := db.Order("created_at DESC").Offset(in.Offset).Limit(in.Limit).Find(&documents).Error
	return documents, total, err
}

func (r *GormDocumentRepository) UpdateByID(_ context.Context, tx *gorm.DB, documentID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Document{}).Where("id = ?", documentID).Updates(updates).Error
}

func (r *GormDocumentRepository) SoftDeleteByID(_ context.Context, tx *gorm.DB, documentID uint, deletedBy uint) error {
	db := useTx(r.db, tx)
	if err := db.Model(&models.Document{}).Where("id = ?", documentID).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return db.Where("id = ?", documentID).Delete(&models.Document{}).Error
}

func (r *GormDocumentRepository) ListDeletedBefore(_ context.Context, tx *gorm.DB, cutoff time.Time) ([]models.Document, error) {
	var documents []models.Document
	err := useTx(r.db, tx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&documents).Error
	return documents, err
}

func (r *GormDocumentRepository) UnscopedDeleteByID(_ context.Context, tx *gorm.DB, documentID uint) error {
	return useTx(r.db, tx).Unscoped().Where("id = ?", documentID).Delete(&models.Document{}).Error
}
