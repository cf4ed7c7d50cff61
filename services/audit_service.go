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

// Auditor is the fire-and-forget side of the audit service. Record never
// blocks or fails the triggering operation; write failures go to the log.
type Auditor interface {
	Record(entry models.AuditLogEntry)
}

type AuditListOutput struct {
	Entries    []models.AuditLogEntry `json:"entries"`
	Pagination utils.PaginationData   `json:"pagination"`
}

type AuditFilter struct {
	UserID       uint
	Action       string
	ResourceType string
	DepartmentID uint
	Page         int
	PageSize     int
}

type AuditService interface {
	Auditor
	List(ctx context.Context, principal Principal, filter AuditFilter) (AuditListOutput, error)
	Start()
	Stop()
}

type auditService struct {
	auditLogs repositories.AuditLogRepository
	queue     chan models.AuditLogEntry
	done      chan struct{}
}

func NewAuditService(auditLogs repositories.AuditLogRepository, queueSize int) AuditService {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &auditService{
		auditLogs: auditLogs,
		queue:     make(chan models.AuditLogEntry, queueSize),
		done:      make(chan struct{}),
	}
}

func (s *auditService) Start() {
	go s.worker()
}

func (s *auditService) Stop() {
	close(s.queue)
	<-s.done
}

func (s *auditService) worker() {
	defer close(s.done)
	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.auditLogs.Create(ctx, nil, &entry)
		cancel()
		if err != nil {
			logger.Errorf("audit write failed (user %d, action %s): %v", entry.UserID, entry.Action, err)
		}
	}
}

func (s *auditService) Record(entry models.AuditLogEntry) {
	select {
	case s.queue <- entry:
	default:
		logger.Errorf("audit queue full, dropping action %s for user %d", entry.Action, entry.UserID)
	}
}

func (s *auditService) List(ctx context.Context, principal Principal, filter AuditFilter) (AuditListOutput, error) {
	if !principal.IsAdmin() {
		return AuditListOutput{}, newPermissionDenied("audit log requires an admin role")
	}

	page, pageSize := utils.NormalizePage(filter.Page, filter.PageSize)
	entries, total, err := s.auditLogs.List(ctx, nil, repositories.AuditListInput{
		UserID:       filter.UserID,
		Action:       filter.Action,
		ResourceType: filter.ResourceType,
		DepartmentID: filter.DepartmentID,
		Offset:       (page - 1) * pageSize,
		Limit:        pageSize,
	})
	if err != nil {
		return AuditListOutput{}, newAppError(http.StatusInternalServerError, "failed to list audit entries", err)
	}

	return AuditListOutput{
		Entries:    entries,
		Pagination: utils.BuildPagination(page, pageSize, total),
	}, nil
}
