package services

import (
	"docvault/config"
	"docvault/repositories"
	"docvault/storage"
)

// Container bundles all services with their background workers. Build it once
// at startup, Start it, and Stop it on shutdown to drain the queues.
type Container struct {
	Auth          AuthService
	Departments   DepartmentService
	Folders       FolderService
	Documents     DocumentService
	Versions      VersionService
	Permissions   PermissionService
	Notifications NotificationService
	Audit         AuditService
	Thumbnails    ThumbnailService
	Cleanup       CleanupService
}

func NewContainer(repos *repositories.Container, blobs storage.BlobStore) *Container {
	queueSize := 0
	if config.AppConfig != nil {
		queueSize = config.AppConfig.Notifications.QueueSize
	}

	notifications := NewNotificationService(repos.Notifications, queueSize)
	audit := NewAuditService(repos.AuditLogs, queueSize)
	thumbnails := NewThumbnailService(repos.ThumbnailTasks, repos.Documents, blobs)

	return &Container{
		Auth:        NewAuthService(repos.Users, repos.Departments),
		Departments: NewDepartmentService(repos.Departments, repos.Folders),
		Folders: NewFolderService(
			repos.TxManager, repos.Folders, repos.Documents, repos.Departments, repos.Permissions,
		),
		Documents: NewDocumentService(
			repos.Folders, repos.Documents, repos.Permissions, blobs, notifications, thumbnails,
		),
		Versions: NewVersionService(
			repos.TxManager, repos.Documents, repos.Versions, repos.DocumentLocks, blobs, notifications, thumbnails,
		),
		Permissions:   NewPermissionService(repos.Folders, repos.Documents, repos.Permissions, notifications),
		Notifications: notifications,
		Audit:         audit,
		Thumbnails:    thumbnails,
		Cleanup: NewCleanupService(
			repos.TxManager, repos.Documents, repos.Versions, repos.Permissions,
			repos.Notifications, repos.AuditLogs, blobs,
		),
	}
}

// Start launches the background workers. Thumbnail and cleanup workers only
// run when enabled in the config.
func (c *Container) Start() {
	c.Notifications.Start()
	c.Audit.Start()
	if config.AppConfig == nil || config.AppConfig.Thumbnail.Enabled {
		c.Thumbnails.Start()
	}
	if config.AppConfig != nil && config.AppConfig.Retention.Enabled {
		c.Cleanup.Start()
	}
}

func (c *Container) Stop() {
	if config.AppConfig == nil || config.AppConfig.Thumbnail.Enabled {
		c.Thumbnails.Stop()
	}
	if config.AppConfig != nil && config.AppConfig.Retention.Enabled {
		c.Cleanup.Stop()
	}
	c.Notifications.Stop()
	c.Audit.Stop()
}
