package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleMember     = "member"
)

type User struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(100)" json:"display_name"`
	Role         string         `gorm:"type:varchar(20);not null;default:member;index" json:"role"`
	DepartmentID *uint          `gorm:"index" json:"department_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleMember:
		return true
	}
	return false
}
