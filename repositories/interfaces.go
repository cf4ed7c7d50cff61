package repositories

import (
	"context"
	"time"

	"docvault/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByUsername(ctx context.Context, username string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
	ListByDepartment(ctx context.Context, tx *gorm.DB, departmentID uint) ([]models.User, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, department *models.Department) error
	GetByID(ctx context.Context, tx *gorm.DB, departmentID uint) (models.Department, error)
	CountByName(ctx context.Context, tx *gorm.DB, name string, excludeID uint) (int64, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]models.Department, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, departmentID uint, updates map[string]interface{}) error
}

type FolderRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, folderID uint) (models.Folder, error)
	Create(ctx context.Context, tx *gorm.DB, folder *models.Folder) error
	ListByParent(ctx context.Context, tx *gorm.DB, departmentID uint, parentID *uint) ([]models.Folder, error)
	ListChildren(ctx context.Context, tx *gorm.DB, folderID uint) ([]models.Folder, error)
	CountByParentAndName(ctx context.Context, tx *gorm.DB, departmentID uint, parentID *uint, name string, excludeID uint) (int64, error)
	CountChildren(ctx context.Context, tx *gorm.DB, folderID uint) (int64, error)
	CountByDepartment(ctx context.Context, tx *gorm.DB, departmentID uint) (int64, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, folderID uint, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, folderID uint) error
}

type ListDocumentsInput struct {
	FolderID uint
	SortBy   string
	Order    string
	Offset   int
	Limit    int
}

type SearchDocumentsInput struct {
	DepartmentID uint
	Query        string
	Tag          string
	FileType     string
	Offset       int
	Limit        int
}

type DocumentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, document *models.Document) error
	GetByID(ctx context.Context, tx *gorm.DB, documentID uint) (models.Document, error)
	// GetByIDForUpdate takes a row lock; only valid inside a transaction.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, documentID uint) (models.Document, error)
	ListByFolder(ctx context.Context, tx *gorm.DB, in ListDocumentsInput) ([]models.Document, error)
	CountByFolder(ctx context.Context, tx *gorm.DB, folderID uint) (int64, error)
	CountByFolderAndTitle(ctx context.Context, tx *gorm.DB, folderID uint, title string, excludeID uint) (int64, error)
	Search(ctx context.Context, tx *gorm.DB, in SearchDocumentsInput) ([]models.Document, int64, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, documentID uint, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, documentID uint, deletedBy uint) error
	ListDeletedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]models.Document, error)
	UnscopedDeleteByID(ctx context.Context, tx *gorm.DB, documentID uint) error
}

type DocumentVersionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, version *models.DocumentVersion) error
	GetByID(ctx context.Context, tx *gorm.DB, versionID uint) (models.DocumentVersion, error)
	ListByDocument(ctx context.Context, tx *gorm.DB, documentID uint) ([]models.DocumentVersion, error)
	DeleteByDocument(ctx context.Context, tx *gorm.DB, documentID uint) error
}

type PermissionRepository interface {
	ListByResource(ctx context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint) ([]models.PermissionEntry, error)
	GetByResourceAndUser(ctx context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint, userID uint) (models.PermissionEntry, error)
	GetByResourceAndRole(ctx context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint, role string) (models.PermissionEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, entryID uint) (models.PermissionEntry, error)
	Create(ctx context.Context, tx *gorm.DB, entry *models.PermissionEntry) error
	UpdateByID(ctx context.Context, tx *gorm.DB, entryID uint, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, entryID uint) error
	DeleteByResource(ctx context.Context, tx *gorm.DB, resourceType models.ResourceType, resourceID uint) error
}

type AuditListInput struct {
	UserID       uint
	Action       string
	ResourceType string
	DepartmentID uint
	Offset       int
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLogEntry) error
	List(ctx context.Context, tx *gorm.DB, in AuditListInput) ([]models.AuditLogEntry, int64, error)
	DeleteBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, unreadOnly bool, offset, limit int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, notificationID uint, userID uint, readAt time.Time) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uint, readAt time.Time) error
	DeleteByIDAndUser(ctx context.Context, tx *gorm.DB, notificationID uint, userID uint) error
	DeleteReadBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type ThumbnailTaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *models.ThumbnailTask) error
	ListPending(ctx context.Context, tx *gorm.DB, limit int) ([]models.ThumbnailTask, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, taskID uint, updates map[string]interface{}) error
}

// DocumentLocker serializes mutations on a single document across processes.
// Acquire blocks (bounded by the configured wait) until the lease is held and
// returns the release function.
type DocumentLocker interface {
	Acquire(ctx context.Context, documentID uint) (release func(), err error)
}

type Container struct {
	TxManager      TxManager
	Users          UserRepository
	Departments    DepartmentRepository
	Folders        FolderRepository
	Documents      DocumentRepository
	Versions       DocumentVersionRepository
	Permissions    PermissionRepository
	AuditLogs      AuditLogRepository
	Notifications  NotificationRepository
	ThumbnailTasks ThumbnailTaskRepository
	DocumentLocks  DocumentLocker
}
