package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"docvault/config"
	"docvault/logger"
	"docvault/models"
	"docvault/repositories"
	"docvault/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultReplaceNote = "file replaced"

type ReplaceInput struct {
	Reader       io.ReadSeeker
	Size         int64
	ContentType  string
	OriginalName string
	ChangeNote   string
}

// ThumbnailEnqueuer requests thumbnail regeneration after a document's
// content changes. Fire-and-forget.
type ThumbnailEnqueuer interface {
	Enqueue(documentID uint)
}

// VersionService maintains the append-only revision history of a document.
// Invariants: the version counter strictly increases on every mutation;
// every prior storage state is captured in exactly one DocumentVersion row
// before being overwritten; version rows are never mutated. Concurrent
// mutations on one document are serialized by a redis lease plus a row lock
// inside the transaction.
type VersionService interface {
	ListVersions(ctx context.Context, documentID uint) ([]models.DocumentVersion, error)
	Replace(ctx context.Context, actor Principal, documentID uint, in ReplaceInput) (models.DocumentVersion, error)
	Restore(ctx context.Context, actor Principal, documentID uint, versionID uint) (models.DocumentVersion, error)
}

type versionService struct {
	txManager TxManager
	documents repositories.DocumentRepository
	versions  repositories.DocumentVersionRepository
	locks     repositories.DocumentLocker
	blobs     storage.BlobStore
	notifier  Notifier
	thumbs    ThumbnailEnqueuer
}

func NewVersionService(
	txManager TxManager,
	documents repositories.DocumentRepository,
	versions repositories.DocumentVersionRepository,
	locks repositories.DocumentLocker,
	blobs storage.BlobStore,
	notifier Notifier,
	thumbs ThumbnailEnqueuer,
) VersionService {
	return &versionService{
		txManager: txManager,
		documents: documents,
		versions:  versions,
		locks:     locks,
		blobs:     blobs,
		notifier:  notifier,
		thumbs:    thumbs,
	}
}

func (s *versionService) ListVersions(ctx context.Context, documentID uint) ([]models.DocumentVersion, error) {
	if _, err := s.documents.GetByID(ctx, nil, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFound("document not found")
		}
		return nil, newAppError(http.StatusInternalServerError, "failed to load document", err)
	}

	versions, err := s.versions.ListByDocument(ctx, nil, documentID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list versions", err)
	}
	return versions, nil
}

func (s *versionService) Replace(ctx context.Context, actor Principal, documentID uint, in ReplaceInput) (models.DocumentVersion, error) {
	document, err := s.documents.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DocumentVersion{}, newNotFound("document not found")
		}
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to load document", err)
	}

	// The new blob must be confirmed before the document pointer moves, so
	// a failed write can never leave the document pointing at a missing
	// object.
	newKey := fmt.Sprintf("documents/%s.%s", uuid.NewString(), document.FileType)
	if err := putObjectWithRetry(ctx, s.blobs, newKey, in.Reader, in.Size, in.ContentType); err != nil {
		return models.DocumentVersion{}, err
	}

	release, err := s.locks.Acquire(ctx, documentID)
	if err != nil {
		s.removeOrphan(newKey)
		if errors.Is(err, repositories.ErrLockNotAcquired) {
			return models.DocumentVersion{}, newConflict("document is locked by another operation")
		}
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to lock document", err)
	}
	defer release()

	note := in.ChangeNote
	if note == "" {
		note = defaultReplaceNote
	}

	var snapshot models.DocumentVersion
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		current, err := s.documents.GetByIDForUpdate(ctx, tx, documentID)
		if err != nil {
			return err
		}

		snapshot = models.DocumentVersion{
			DocumentID:    current.ID,
			VersionNumber: current.Version,
			ObjectKey:     current.ObjectKey,
			FileURL:       current.FileURL,
			FileSize:      current.FileSize,
			UploadedBy:    current.UploadedBy,
			ChangeNote:    note,
		}
		if err := s.versions.Create(ctx, tx, &snapshot); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"version":     current.Version + 1,
			"object_key":  newKey,
			"file_url":    s.blobs.ObjectURL(newKey),
			"file_size":   in.Size,
			"uploaded_by": actor.UserID,
		}
		if in.OriginalName != "" {
			updates["original_name"] = in.OriginalName
		}
		return s.documents.UpdateByID(ctx, tx, documentID, updates)
	})
	if err != nil {
		s.removeOrphan(newKey)
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to record new version", err)
	}

	s.afterMutation(document, actor, models.NotificationVersionReplace,
		fmt.Sprintf("document %q was replaced (now version %d)", document.Title, snapshot.VersionNumber+1))
	return snapshot, nil
}

func (s *versionService) Restore(ctx context.Context, actor Principal, documentID uint, versionID uint) (models.DocumentVersion, error) {
	document, err := s.documents.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DocumentVersion{}, newNotFound("document not found")
		}
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to load document", err)
	}

	target, err := s.versions.GetByID(ctx, nil, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DocumentVersion{}, newNotFound("version not found")
		}
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to load version", err)
	}
	if target.DocumentID != documentID {
		return models.DocumentVersion{}, newVersionMismatch("version does not belong to this document")
	}

	// The restored object must still exist before the pointer moves.
	confirmCtx, cancel := context.WithTimeout(ctx, storageTimeout())
	_, err = s.blobs.Confirm(confirmCtx, target.ObjectKey)
	cancel()
	if err != nil {
		return models.DocumentVersion{}, storageError("restore target confirm", err)
	}

	release, err := s.locks.Acquire(ctx, documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrLockNotAcquired) {
			return models.DocumentVersion{}, newConflict("document is locked by another operation")
		}
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to lock document", err)
	}
	defer release()

	// Restore is modeled as a new version: snapshot the current state as a
	// pre-restore backup, then point at the target's stored object under a
	// fresh, higher version number. The counter never decreases and no
	// number is reused.
	var backup models.DocumentVersion
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		current, err := s.documents.GetByIDForUpdate(ctx, tx, documentID)
		if err != nil {
			return err
		}

		backup = models.DocumentVersion{
			DocumentID:    current.ID,
			VersionNumber: current.Version,
			ObjectKey:     current.ObjectKey,
			FileURL:       current.FileURL,
			FileSize:      current.FileSize,
			UploadedBy:    current.UploadedBy,
			ChangeNote:    fmt.Sprintf("backup before restoring version %d", target.VersionNumber),
		}
		if err := s.versions.Create(ctx, tx, &backup); err != nil {
			return err
		}

		return s.documents.UpdateByID(ctx, tx, documentID, map[string]interface{}{
			"version":     current.Version + 1,
			"object_key":  target.ObjectKey,
			"file_url":    target.FileURL,
			"file_size":   target.FileSize,
			"uploaded_by": actor.UserID,
		})
	})
	if err != nil {
		return models.DocumentVersion{}, newAppError(http.StatusInternalServerError, "failed to restore version", err)
	}

	s.afterMutation(document, actor, models.NotificationVersionRestore,
		fmt.Sprintf("document %q was restored to version %d", document.Title, target.VersionNumber))
	return backup, nil
}

// putObjectWithRetry writes an object and confirms it with a Stat. Only
// deadline overruns are retried, with doubling backoff; other failures
// surface immediately as StorageWriteFailed.
func putObjectWithRetry(ctx context.Context, blobs storage.BlobStore, key string, reader io.ReadSeeker, size int64, contentType string) error {
	attempts := config.AppConfig.Storage.WriteRetries
	if attempts < 1 {
		attempts = 1
	}

	backoff := 100 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if _, err := reader.Seek(0, io.SeekStart); err != nil {
				return newStorageWriteFailed("rewind upload stream failed", err)
			}
			select {
			case <-ctx.Done():
				return newTimeout("blob write cancelled", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		putCtx, cancel := context.WithTimeout(ctx, storageTimeout())
		err := blobs.Put(putCtx, key, reader, size, contentType)
		cancel()
		if err != nil {
			lastErr = err
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return newStorageWriteFailed("blob write failed", err)
		}

		confirmCtx, cancel := context.WithTimeout(ctx, storageTimeout())
		_, err = blobs.Confirm(confirmCtx, key)
		cancel()
		if err != nil {
			lastErr = err
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return newStorageWriteFailed("blob confirm failed", err)
		}
		return nil
	}
	return newTimeout("blob write timed out", lastErr)
}

func (s *versionService) removeOrphan(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout())
	defer cancel()
	if err := s.blobs.Remove(ctx, key); err != nil {
		logger.Errorf("failed to remove orphaned object %s: %v", key, err)
	}
}

func (s *versionService) afterMutation(document models.Document, actor Principal, notificationType, message string) {
	if s.thumbs != nil && models.IsImageType(document.FileType) {
		s.thumbs.Enqueue(document.ID)
	}
	if s.notifier == nil || document.UploadedBy == actor.UserID {
		return
	}
	id := document.ID
	s.notifier.Push(models.Notification{
		UserID:     document.UploadedBy,
		Type:       notificationType,
		Message:    message,
		DocumentID: &id,
	})
}

func storageTimeout() time.Duration {
	if config.AppConfig != nil && config.AppConfig.Storage.TimeoutMs > 0 {
		return time.Duration(config.AppConfig.Storage.TimeoutMs) * time.Millisecond
	}
	return 15 * time.Second
}
