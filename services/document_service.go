package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"docvault/config"
	"docvault/models"
	"docvault/repositories"
	"docvault/storage"
	"docvault/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadDocumentInput struct {
	Title       string
	FolderID    uint
	FileName    string
	Reader      io.ReadSeeker
	Size        int64
	ContentType string
	Tags        []string
	Metadata    map[string]string
}

type UpdateDocumentInput struct {
	Title    *string
	Tags     []string
	Metadata map[string]string
}

type DocumentListOutput struct {
	Documents  []models.Document    `json:"documents"`
	Pagination utils.PaginationData `json:"pagination"`
}

type DocumentService interface {
	Upload(ctx context.Context, principal Principal, in UploadDocumentInput) (models.Document, error)
	Get(ctx context.Context, documentID uint) (models.Document, error)
	ListByFolder(ctx context.Context, folderID uint, page, pageSize int, sortBy, order string) (DocumentListOutput, error)
	Search(ctx context.Context, departmentID uint, query, tag, fileType string, page, pageSize int) (DocumentListOutput, error)
	Update(ctx context.Context, principal Principal, documentID uint, in UpdateDocumentInput) (models.Document, error)
	Move(ctx context.Context, principal Principal, documentID uint, targetFolderID uint) error
	Delete(ctx context.Context, principal Principal, documentID uint) error
	DownloadURL(ctx context.Context, documentID uint) (string, error)
	ThumbnailURL(ctx context.Context, documentID uint) (string, error)
}

type documentService struct {
	folders     repositories.FolderRepository
	documents   repositories.DocumentRepository
	permissions repositories.PermissionRepository
	blobs       storage.BlobStore
	notifier    Notifier
	thumbs      ThumbnailEnqueuer
}

func NewDocumentService(
	folders repositories.FolderRepository,
	documents repositories.DocumentRepository,
	permissions repositories.PermissionRepository,
	blobs storage.BlobStore,
	notifier Notifier,
	thumbs ThumbnailEnqueuer,
) DocumentService {
	return &documentService{
		folders:     folders,
		documents:   documents,
		permissions: permissions,
		blobs:       blobs,
		notifier:    notifier,
		thumbs:      thumbs,
	}
}

// normalizeTags lowercases, trims, dedupes and sorts, then marshals to the
// JSON column format.
func normalizeTags(tags []string) (string, error) {
	seen := map[string]bool{}
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	sort.Strings(normalized)

	data, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func fileTypeOf(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

func (s *documentService) Upload(ctx context.Context, principal Principal, in UploadDocumentInput) (models.Document, error) {
	if in.Title == "" {
		in.Title = in.FileName
	}
	fileType := fileTypeOf(in.FileName)
	if !models.ValidFileType(fileType) {
		return models.Document{}, newInvalid("unsupported file type: " + fileType)
	}
	if max := config.AppConfig.Storage.MaxFileSize; max > 0 && in.Size > max {
		return models.Document{}, newInvalid("file exceeds the maximum allowed size")
	}

	folder, err := s.folders.GetByID(ctx, nil, in.FolderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newNotFound("folder not found")
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	count, err := s.documents.CountByFolderAndTitle(ctx, nil, folder.ID, in.Title, 0)
	if err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to check document title", err)
	}
	if count > 0 {
		return models.Document{}, newConflict("a document with this title already exists in the folder")
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to encode tags", err)
	}
	metadata, err := marshalMetadata(in.Metadata)
	if err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to encode metadata", err)
	}

	key := fmt.Sprintf("documents/%s.%s", uuid.NewString(), fileType)
	if err := putObjectWithRetry(ctx, s.blobs, key, in.Reader, in.Size, in.ContentType); err != nil {
		return models.Document{}, err
	}

	document := models.Document{
		Title:        in.Title,
		OriginalName: in.FileName,
		ObjectKey:    key,
		FileURL:      s.blobs.ObjectURL(key),
		FileType:     fileType,
		FileSize:     in.Size,
		FolderID:     folder.ID,
		DepartmentID: folder.DepartmentID,
		UploadedBy:   principal.UserID,
		Version:      1,
		Tags:         tags,
		Metadata:     metadata,
	}
	if err := s.documents.Create(ctx, nil, &document); err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to create document", err)
	}

	if s.thumbs != nil && models.IsImageType(fileType) {
		s.thumbs.Enqueue(document.ID)
	}
	if s.notifier != nil && folder.CreatedBy != principal.UserID {
		id := document.ID
		s.notifier.Push(models.Notification{
			UserID:     folder.CreatedBy,
			Type:       models.NotificationUpload,
			Message:    fmt.Sprintf("document %q was uploaded to folder %q", document.Title, folder.Name),
			DocumentID: &id,
		})
	}
	return document, nil
}

func (s *documentService) Get(ctx context.Context, documentID uint) (models.Document, error) {
	document, err := s.documents.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Document{}, newNotFound("document not found")
		}
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to load document", err)
	}
	return document, nil
}

func (s *documentService) ListByFolder(ctx context.Context, folderID uint, page, pageSize int, sortBy, order string) (DocumentListOutput, error) {
	if _, err := s.folders.GetByID(ctx, nil, folderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentListOutput{}, newNotFound("folder not found")
		}
		return DocumentListOutput{}, newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	page, pageSize = utils.NormalizePage(page, pageSize)
	total, err := s.documents.CountByFolder(ctx, nil, folderID)
	if err != nil {
		return DocumentListOutput{}, newAppError(http.StatusInternalServerError, "failed to count documents", err)
	}

	documents, err := s.documents.ListByFolder(ctx, nil, repositories.ListDocumentsInput{
		FolderID: folderID,
		SortBy:   sortBy,
		Order:    order,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		return DocumentListOutput{}, newAppError(http.StatusInternalServerError, "failed to list documents", err)
	}

	return DocumentListOutput{
		Documents:  documents,
		Pagination: utils.BuildPagination(page, pageSize, total),
	}, nil
}

func (s *documentService) Search(ctx context.Context, departmentID uint, query, tag, fileType string, page, pageSize int) (DocumentListOutput, error) {
	page, pageSize = utils.NormalizePage(page, pageSize)

	documents, total, err := s.documents.Search(ctx, nil, repositories.SearchDocumentsInput{
		DepartmentID: departmentID,
		Query:        query,
		Tag:          strings.ToLower(strings.TrimSpace(tag)),
		FileType:     strings.ToLower(fileType),
		Offset:       (page - 1) * pageSize,
		Limit:        pageSize,
	})
	if err != nil {
		return DocumentListOutput{}, newAppError(http.StatusInternalServerError, "failed to search documents", err)
	}

	return DocumentListOutput{
		Documents:  documents,
		Pagination: utils.BuildPagination(page, pageSize, total),
	}, nil
}

func (s *documentService) Update(ctx context.Context, principal Principal, documentID uint, in UpdateDocumentInput) (models.Document, error) {
	document, err := s.Get(ctx, documentID)
	if err != nil {
		return models.Document{}, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil && *in.Title != "" && *in.Title != document.Title {
		count, err := s.documents.CountByFolderAndTitle(ctx, nil, document.FolderID, *in.Title, document.ID)
		if err != nil {
			return models.Document{}, newAppError(http.StatusInternalServerError, "failed to check document title", err)
		}
		if count > 0 {
			return models.Document{}, newConflict("a document with this title already exists in the folder")
		}
		updates["title"] = *in.Title
	}
	if in.Tags != nil {
		tags, err := normalizeTags(in.Tags)
		if err != nil {
			return models.Document{}, newAppError(http.StatusInternalServerError, "failed to encode tags", err)
		}
		updates["tags"] = tags
	}
	if in.Metadata != nil {
		metadata, err := marshalMetadata(in.Metadata)
		if err != nil {
			return models.Document{}, newAppError(http.StatusInternalServerError, "failed to encode metadata", err)
		}
		updates["metadata"] = metadata
	}
	if len(updates) == 0 {
		return document, nil
	}

	if err := s.documents.UpdateByID(ctx, nil, documentID, updates); err != nil {
		return models.Document{}, newAppError(http.StatusInternalServerError, "failed to update document", err)
	}
	return s.Get(ctx, documentID)
}

// Move relocates a document to another folder in the same department. The
// document keeps its own permission entries; inheritance now resolves
// against the new folder.
func (s *documentService) Move(ctx context.Context, principal Principal, documentID uint, targetFolderID uint) error {
	document, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}

	target, err := s.folders.GetByID(ctx, nil, targetFolderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("target folder not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to load target folder", err)
	}
	if target.DepartmentID != document.DepartmentID {
		return newCrossDepartment("document and target folder belong to different departments")
	}

	count, err := s.documents.CountByFolderAndTitle(ctx, nil, target.ID, document.Title, document.ID)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to check document title", err)
	}
	if count > 0 {
		return newConflict("a document with this title already exists in the target folder")
	}

	if err := s.documents.UpdateByID(ctx, nil, documentID, map[string]interface{}{"folder_id": target.ID}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to move document", err)
	}
	return nil
}

func (s *documentService) Delete(ctx context.Context, principal Principal, documentID uint) error {
	if _, err := s.Get(ctx, documentID); err != nil {
		return err
	}
	if err := s.documents.SoftDeleteByID(ctx, nil, documentID, principal.UserID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete document", err)
	}
	return nil
}

func (s *documentService) DownloadURL(ctx context.Context, documentID uint) (string, error) {
	document, err := s.Get(ctx, documentID)
	if err != nil {
		return "", err
	}

	expiry := time.Duration(config.AppConfig.Storage.DownloadExpiry) * time.Second
	urlCtx, cancel := context.WithTimeout(ctx, storageTimeout())
	defer cancel()
	url, err := s.blobs.PresignedGetURL(urlCtx, document.ObjectKey, document.OriginalName, expiry)
	if err != nil {
		return "", storageError("presign download", err)
	}
	return url, nil
}

func (s *documentService) ThumbnailURL(ctx context.Context, documentID uint) (string, error) {
	document, err := s.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	if document.ThumbnailKey == "" {
		return "", newNotFound("no thumbnail for this document")
	}

	expiry := time.Duration(config.AppConfig.Storage.DownloadExpiry) * time.Second
	urlCtx, cancel := context.WithTimeout(ctx, storageTimeout())
	defer cancel()
	url, err := s.blobs.PresignedGetURL(urlCtx, document.ThumbnailKey, "", expiry)
	if err != nil {
		return "", storageError("presign thumbnail", err)
	}
	return url, nil
}
