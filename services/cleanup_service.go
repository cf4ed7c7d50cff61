package services

import (
	"context"
	"sync"
	"time"

	"docvault/config"
	"docvault/logger"
	"docvault/models"
	"docvault/repositories"
	"docvault/storage"

	"gorm.io/gorm"
)

// CleanupService enforces the retention policy in the background: documents
// soft-deleted longer than the configured window are purged for good, along
// with their version history, permission entries, and stored objects. It also
// trims old read notifications and expired audit rows.
type CleanupService interface {
	Start()
	Stop()
	RunOnce(ctx context.Context) error
}

type cleanupService struct {
	txManager   TxManager
	documents   repositories.DocumentRepository
	versions    repositories.DocumentVersionRepository
	permissions repositories.PermissionRepository
	notify      repositories.NotificationRepository
	audits      repositories.AuditLogRepository
	blobs       storage.BlobStore

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewCleanupService(
	txManager TxManager,
	documents repositories.DocumentRepository,
	versions repositories.DocumentVersionRepository,
	permissions repositories.PermissionRepository,
	notify repositories.NotificationRepository,
	audits repositories.AuditLogRepository,
	blobs storage.BlobStore,
) CleanupService {
	return &cleanupService{
		txManager:   txManager,
		documents:   documents,
		versions:    versions,
		permissions: permissions,
		notify:      notify,
		audits:      audits,
		blobs:       blobs,
		stopCh:      make(chan struct{}),
	}
}

func (s *cleanupService) Start() {
	interval := time.Hour
	if config.AppConfig != nil && config.AppConfig.Retention.CleanupIntervalSec > 0 {
		interval = time.Duration(config.AppConfig.Retention.CleanupIntervalSec) * time.Second
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := s.RunOnce(ctx); err != nil {
					logger.Errorf("retention cleanup run failed: %v", err)
				}
				cancel()
			}
		}
	}()
}

func (s *cleanupService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *cleanupService) RunOnce(ctx context.Context) error {
	if err := s.purgeExpiredDocuments(ctx); err != nil {
		return err
	}
	s.purgeNotifications(ctx)
	s.purgeAuditLogs(ctx)
	return nil
}

func (s *cleanupService) purgeExpiredDocuments(ctx context.Context) error {
	days := retentionDays(func(c *config.RetentionConfig) int { return c.DeletedDocumentDays }, 30)
	cutoff := time.Now().AddDate(0, 0, -days)

	expired, err := s.documents.ListDeletedBefore(ctx, nil, cutoff)
	if err != nil {
		return err
	}

	for _, document := range expired {
		if err := s.purgeDocument(ctx, document); err != nil {
			logger.Errorf("failed to purge document %d: %v", document.ID, err)
		}
	}
	return nil
}

// purgeDocument removes storage objects first; a blob orphaned by a crash
// between the two phases is re-collected on the next run because the rows
// still exist, while the reverse order would leak objects forever.
func (s *cleanupService) purgeDocument(ctx context.Context, document models.Document) error {
	history, err := s.versions.ListByDocument(ctx, nil, document.ID)
	if err != nil {
		return err
	}

	keys := make(map[string]struct{})
	keys[document.ObjectKey] = struct{}{}
	if document.ThumbnailKey != "" {
		keys[document.ThumbnailKey] = struct{}{}
	}
	for _, version := range history {
		keys[version.ObjectKey] = struct{}{}
	}
	for key := range keys {
		if key == "" {
			continue
		}
		if err := s.blobs.Remove(ctx, key); err != nil {
			return err
		}
	}

	return s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.versions.DeleteByDocument(ctx, tx, document.ID); err != nil {
			return err
		}
		if err := s.permissions.DeleteByResource(ctx, tx, models.ResourceDocument, document.ID); err != nil {
			return err
		}
		return s.documents.UnscopedDeleteByID(ctx, tx, document.ID)
	})
}

func (s *cleanupService) purgeNotifications(ctx context.Context) {
	days := retentionDays(func(c *config.RetentionConfig) int { return c.ReadNotificationDays }, 90)
	cutoff := time.Now().AddDate(0, 0, -days)

	deleted, err := s.notify.DeleteReadBefore(ctx, nil, cutoff)
	if err != nil {
		logger.Errorf("failed to purge read notifications: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("retention cleanup removed %d read notifications", deleted)
	}
}

func (s *cleanupService) purgeAuditLogs(ctx context.Context) {
	days := retentionDays(func(c *config.RetentionConfig) int { return c.AuditLogDays }, 365)
	cutoff := time.Now().AddDate(0, 0, -days)

	deleted, err := s.audits.DeleteBefore(ctx, nil, cutoff)
	if err != nil {
		logger.Errorf("failed to purge audit logs: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("retention cleanup removed %d audit log entries", deleted)
	}
}

func retentionDays(pick func(*config.RetentionConfig) int, fallback int) int {
	if config.AppConfig != nil {
		if days := pick(&config.AppConfig.Retention); days > 0 {
			return days
		}
	}
	return fallback
}
