package models

import "time"

const (
	NotificationUpload          = "document_uploaded"
	NotificationVersionReplace  = "version_replaced"
	NotificationVersionRestore  = "version_restored"
	NotificationPermissionGrant = "permission_granted"
)

type Notification struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Type       string     `gorm:"type:varchar(30);not null" json:"type"`
	Message    string     `gorm:"type:varchar(500);not null" json:"message"`
	DocumentID *uint      `gorm:"index" json:"document_id,omitempty"`
	FolderID   *uint      `json:"folder_id,omitempty"`
	IsRead     bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index;autoCreateTime" json:"created_at"`
}
