package models

import (
	"time"

	"gorm.io/gorm"
)

// Folder is a node in a strict tree. A nil ParentID marks a department-level
// root. Every non-root folder belongs to the same department as its parent.
type Folder struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	ParentID     *uint          `gorm:"index" json:"parent_id"`
	DepartmentID uint           `gorm:"not null;index" json:"department_id"`
	CreatedBy    uint           `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
