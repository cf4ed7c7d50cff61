package models

import "time"

type ResourceType string

const (
	ResourceFolder   ResourceType = "folder"
	ResourceDocument ResourceType = "document"
)

type AccessRight string

const (
	RightView     AccessRight = "view"
	RightUpload   AccessRight = "upload"
	RightEdit     AccessRight = "edit"
	RightDelete   AccessRight = "delete"
	RightDownload AccessRight = "download"
)

func ValidRight(right AccessRight) bool {
	switch right {
	case RightView, RightUpload, RightEdit, RightDelete, RightDownload:
		return true
	}
	return false
}

// PermissionEntry binds either a specific user or a role to a folder or
// document. Exactly one of UserID / Role is set; at most one entry exists
// per (resource, user) and per (resource, role) pair.
type PermissionEntry struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceType ResourceType `gorm:"type:varchar(10);not null;index:idx_resource,priority:1" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;index:idx_resource,priority:2" json:"resource_id"`
	UserID       *uint        `gorm:"index" json:"user_id,omitempty"`
	Role         string       `gorm:"type:varchar(20);index" json:"role,omitempty"`
	CanView      bool         `gorm:"default:false" json:"can_view"`
	CanUpload    bool         `gorm:"default:false" json:"can_upload"`
	CanEdit      bool         `gorm:"default:false" json:"can_edit"`
	CanDelete    bool         `gorm:"default:false" json:"can_delete"`
	CanDownload  bool         `gorm:"default:false" json:"can_download"`
	GrantedBy    uint         `gorm:"not null" json:"granted_by"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (e PermissionEntry) Allows(right AccessRight) bool {
	switch right {
	case RightView:
		return e.CanView
	case RightUpload:
		return e.CanUpload
	case RightEdit:
		return e.CanEdit
	case RightDelete:
		return e.CanDelete
	case RightDownload:
		return e.CanDownload
	}
	return false
}
