package models

import "time"

const (
	AuditActionLogin            = "login"
	AuditActionUpload           = "upload"
	AuditActionDownload         = "download"
	AuditActionView             = "view"
	AuditActionRename           = "rename"
	AuditActionMove             = "move"
	AuditActionDelete           = "delete"
	AuditActionRestore          = "restore"
	AuditActionVersionReplace   = "version_replace"
	AuditActionVersionRestore   = "version_restore"
	AuditActionPermissionGrant  = "permission_grant"
	AuditActionPermissionRevoke = "permission_revoke"
	AuditActionFolderCreate     = "folder_create"
	AuditActionDepartmentChange = "department_change"
)

// AuditLogEntry is append-only; rows are written once and only removed by
// retention cleanup.
type AuditLogEntry struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Action       string    `gorm:"type:varchar(30);not null;index" json:"action"`
	ResourceType string    `gorm:"type:varchar(10)" json:"resource_type"`
	ResourceID   uint      `json:"resource_id"`
	ResourceName string    `gorm:"type:varchar(255)" json:"resource_name"`
	DepartmentID uint      `gorm:"index" json:"department_id"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent    string    `gorm:"type:varchar(500)" json:"user_agent"`
	Details      string    `gorm:"type:text" json:"details"`
	CreatedAt    time.Time `gorm:"index;autoCreateTime" json:"created_at"`
}
