package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docvault/config"
	"docvault/logger"
	"docvault/models"
	"docvault/repositories"
	"docvault/storage"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThumbnailService generates JPEG previews for image documents in the
// background. Enqueue is fire-and-forget; the worker polls pending tasks and
// retries transient failures until the task's retry limit is reached.
type ThumbnailService interface {
	ThumbnailEnqueuer
	Start()
	Stop()
}

type thumbnailService struct {
	tasks     repositories.ThumbnailTaskRepository
	documents repositories.DocumentRepository
	blobs     storage.BlobStore

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewThumbnailService(
	tasks repositories.ThumbnailTaskRepository,
	documents repositories.DocumentRepository,
	blobs storage.BlobStore,
) ThumbnailService {
	return &thumbnailService{
		tasks:     tasks,
		documents: documents,
		blobs:     blobs,
		stopCh:    make(chan struct{}),
	}
}

func (s *thumbnailService) Enqueue(documentID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task := models.ThumbnailTask{
		DocumentID: documentID,
		Status:     models.TaskStatusPending,
		MaxRetries: thumbnailRetryMax(),
	}
	if err := s.tasks.Create(ctx, nil, &task); err != nil {
		logger.Errorf("failed to enqueue thumbnail task for document %d: %v", documentID, err)
	}
}

func (s *thumbnailService) Start() {
	workers := 1
	if config.AppConfig != nil && config.AppConfig.Thumbnail.WorkerCount > 0 {
		workers = config.AppConfig.Thumbnail.WorkerCount
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

func (s *thumbnailService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *thumbnailService) worker() {
	defer s.wg.Done()

	interval := 10 * time.Second
	if config.AppConfig != nil && config.AppConfig.Thumbnail.IntervalSec > 0 {
		interval = time.Duration(config.AppConfig.Thumbnail.IntervalSec) * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.processPending()
		}
	}
}

func (s *thumbnailService) processPending() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tasks, err := s.tasks.ListPending(ctx, nil, 10)
	if err != nil {
		logger.Errorf("failed to list pending thumbnail tasks: %v", err)
		return
	}

	for _, task := range tasks {
		if err := s.tasks.UpdateByID(ctx, nil, task.ID, map[string]interface{}{
			"status": models.TaskStatusProcessing,
		}); err != nil {
			logger.Errorf("failed to claim thumbnail task %d: %v", task.ID, err)
			continue
		}

		if err := s.generate(ctx, task.DocumentID); err != nil {
			s.recordFailure(ctx, task, err)
			continue
		}

		now := time.Now()
		if err := s.tasks.UpdateByID(ctx, nil, task.ID, map[string]interface{}{
			"status":       models.TaskStatusCompleted,
			"completed_at": &now,
		}); err != nil {
			logger.Errorf("failed to complete thumbnail task %d: %v", task.ID, err)
		}
	}
}

func (s *thumbnailService) generate(ctx context.Context, documentID uint) error {
	document, err := s.documents.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Deleted while the task was queued; nothing to do.
			return nil
		}
		return fmt.Errorf("load document: %w", err)
	}
	if !models.IsImageType(document.FileType) {
		return nil
	}

	object, err := s.blobs.Get(ctx, document.ObjectKey)
	if err != nil {
		return fmt.Errorf("fetch object %s: %w", document.ObjectKey, err)
	}
	defer object.Close()

	img, err := imaging.Decode(object, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	width, height, quality := thumbnailParams()
	thumb := imaging.Fit(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	thumbKey := fmt.Sprintf("thumbnails/%s.jpg", uuid.NewString())
	if err := s.blobs.Put(ctx, thumbKey, &buf, int64(buf.Len()), "image/jpeg"); err != nil {
		return fmt.Errorf("store thumbnail: %w", err)
	}

	if err := s.documents.UpdateByID(ctx, nil, document.ID, map[string]interface{}{
		"thumbnail_key": thumbKey,
	}); err != nil {
		return fmt.Errorf("update document thumbnail: %w", err)
	}

	if document.ThumbnailKey != "" {
		if err := s.blobs.Remove(ctx, document.ThumbnailKey); err != nil {
			logger.Errorf("failed to remove stale thumbnail %s: %v", document.ThumbnailKey, err)
		}
	}
	return nil
}

func (s *thumbnailService) recordFailure(ctx context.Context, task models.ThumbnailTask, cause error) {
	retries := task.RetryCount + 1
	status := models.TaskStatusPending
	if retries >= task.MaxRetries {
		status = models.TaskStatusFailed
	}

	logger.Errorf("thumbnail task %d (document %d) attempt %d failed: %v", task.ID, task.DocumentID, retries, cause)
	if err := s.tasks.UpdateByID(ctx, nil, task.ID, map[string]interface{}{
		"status":        status,
		"retry_count":   retries,
		"error_message": cause.Error(),
	}); err != nil {
		logger.Errorf("failed to record thumbnail task %d failure: %v", task.ID, err)
	}
}

func thumbnailParams() (width, height, quality int) {
	width, height, quality = 320, 320, 80
	if config.AppConfig == nil {
		return
	}
	if config.AppConfig.Thumbnail.Width > 0 {
		width = config.AppConfig.Thumbnail.Width
	}
	if config.AppConfig.Thumbnail.Height > 0 {
		height = config.AppConfig.Thumbnail.Height
	}
	if config.AppConfig.Thumbnail.Quality > 0 {
		quality = config.AppConfig.Thumbnail.Quality
	}
	return
}

func thumbnailRetryMax() int {
	if config.AppConfig != nil && config.AppConfig.Thumbnail.RetryMax > 0 {
		return config.AppConfig.Thumbnail.RetryMax
	}
	return 3
}
