package services

import (
	"context"
	"net/http"
	"time"

	"docvault/logger"
	"docvault/models"
	"docvault/repositories"
	"docvault/utils"
)

// Notifier is the fire-and-forget side of the notification service. Push
// never blocks the calling operation and never returns an error; a full
// queue or a failed insert is logged, not propagated.
type Notifier interface {
	Push(notification models.Notification)
}

type NotificationListOutput struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    utils.PaginationData  `json:"pagination"`
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, userID uint, unreadOnly bool, page, pageSize int) (NotificationListOutput, error)
	MarkRead(ctx context.Context, userID uint, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, userID uint, notificationID uint) error
	Start()
	Stop()
}

type notificationService struct {
	notifications repositories.NotificationRepository
	queue         chan models.Notification
	done          chan struct{}
}

func NewNotificationService(notifications repositories.NotificationRepository, queueSize int) NotificationService {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &notificationService{
		notifications: notifications,
		queue:         make(chan models.Notification, queueSize),
		done:          make(chan struct{}),
	}
}

func (s *notificationService) Start() {
	go s.worker()
}

func (s *notificationService) Stop() {
	close(s.queue)
	<-s.done
}

func (s *notificationService) worker() {
	defer close(s.done)
	for notification := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.notifications.Create(ctx, nil, &notification)
		cancel()
		if err != nil {
			logger.Errorf("notification write failed (user %d, type %s): %v",
				notification.UserID, notification.Type, err)
		}
	}
}

func (s *notificationService) Push(notification models.Notification) {
	select {
	case s.queue <- notification:
	default:
		logger.Errorf("notification queue full, dropping %s for user %d",
			notification.Type, notification.UserID)
	}
}

func (s *notificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, pageSize int) (NotificationListOutput, error) {
	page, pageSize = utils.NormalizePage(page, pageSize)

	notifications, total, err := s.notifications.ListByUser(ctx, nil, userID, unreadOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return NotificationListOutput{}, newAppError(http.StatusInternalServerError, "failed to list notifications", err)
	}
	unread, err := s.notifications.CountUnread(ctx, nil, userID)
	if err != nil {
		return NotificationListOutput{}, newAppError(http.StatusInternalServerError, "failed to count unread notifications", err)
	}

	return NotificationListOutput{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination:    utils.BuildPagination(page, pageSize, total),
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uint, notificationID uint) error {
	if err := s.notifications.MarkRead(ctx, nil, notificationID, userID, time.Now()); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to mark notification read", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.notifications.MarkAllRead(ctx, nil, userID, time.Now()); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to mark notifications read", err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, userID uint, notificationID uint) error {
	if err := s.notifications.DeleteByIDAndUser(ctx, nil, notificationID, userID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete notification", err)
	}
	return nil
}
