package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

var allowedFileTypes = map[string]bool{
	"pdf": true, "docx": true, "xlsx": true,
	"jpg": true, "png": true, "zip": true,
}

func ValidFileType(fileType string) bool {
	return allowedFileTypes[strings.ToLower(fileType)]
}

func IsImageType(fileType string) bool {
	switch strings.ToLower(fileType) {
	case "jpg", "png":
		return true
	}
	return false
}

type Document struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	OriginalName string         `gorm:"type:varchar(255);not null" json:"original_name"`
	ObjectKey    string         `gorm:"type:varchar(500);not null" json:"object_key"`
	FileURL      string         `gorm:"type:varchar(1000)" json:"file_url"`
	FileType     string         `gorm:"type:varchar(10);not null;index" json:"file_type"`
	FileSize     int64          `gorm:"not null" json:"file_size"`
	FolderID     uint           `gorm:"not null;index" json:"folder_id"`
	DepartmentID uint           `gorm:"not null;index" json:"department_id"`
	UploadedBy   uint           `gorm:"not null;index" json:"uploaded_by"`
	Version      int            `gorm:"not null;default:1" json:"version"`
	Tags         string         `gorm:"type:json" json:"tags"`
	Metadata     string         `gorm:"type:json" json:"metadata"`
	ThumbnailKey string         `gorm:"type:varchar(500)" json:"thumbnail_key"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy    *uint          `json:"deleted_by,omitempty"`
}
