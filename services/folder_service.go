package services

import (
	"context"
	"errors"
	"net/http"

	"docvault/models"
	"docvault/repositories"

	"gorm.io/gorm"
)

type CreateFolderInput struct {
	Name         string
	ParentID     *uint
	DepartmentID uint
	// CopyParentPermissions seeds the new folder with a copy of the
	// parent's entries. Folder permissions are otherwise independent of
	// each other; there is no automatic folder-to-folder inheritance.
	CopyParentPermissions bool
}

type FolderService interface {
	Breadcrumb(ctx context.Context, folderID uint) ([]BreadcrumbItem, error)
	ValidateMove(ctx context.Context, folderID uint, newParentID uint) error
	ListFolders(ctx context.Context, departmentID uint, parentID *uint) ([]models.Folder, error)
	GetFolder(ctx context.Context, folderID uint) (models.Folder, error)
	CreateFolder(ctx context.Context, principal Principal, in CreateFolderInput) (models.Folder, error)
	RenameFolder(ctx context.Context, principal Principal, folderID uint, name string) (models.Folder, error)
	MoveFolder(ctx context.Context, principal Principal, folderID uint, newParentID uint) error
	DeleteFolder(ctx context.Context, principal Principal, folderID uint) error
}

type folderService struct {
	txManager   TxManager
	folders     repositories.FolderRepository
	documents   repositories.DocumentRepository
	departments repositories.DepartmentRepository
	permissions repositories.PermissionRepository
	resolver    hierarchyResolver
}

func NewFolderService(
	txManager TxManager,
	folders repositories.FolderRepository,
	documents repositories.DocumentRepository,
	departments repositories.DepartmentRepository,
	permissions repositories.PermissionRepository,
) FolderService {
	return &folderService{
		txManager:   txManager,
		folders:     folders,
		documents:   documents,
		departments: departments,
		permissions: permissions,
		resolver:    hierarchyResolver{folders: folders},
	}
}

func (s *folderService) Breadcrumb(ctx context.Context, folderID uint) ([]BreadcrumbItem, error) {
	return s.resolver.breadcrumb(ctx, nil, folderID)
}

func (s *folderService) ValidateMove(ctx context.Context, folderID uint, newParentID uint) error {
	return s.resolver.validateMove(ctx, nil, folderID, newParentID)
}

func (s *folderService) ListFolders(ctx context.Context, departmentID uint, parentID *uint) ([]models.Folder, error) {
	folders, err := s.folders.ListByParent(ctx, nil, departmentID, parentID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list folders", err)
	}
	return folders, nil
}

func (s *folderService) GetFolder(ctx context.Context, folderID uint) (models.Folder, error) {
	folder, err := s.folders.GetByID(ctx, nil, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folder{}, newNotFound("folder not found")
		}
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}
	return folder, nil
}

func (s *folderService) CreateFolder(ctx context.Context, principal Principal, in CreateFolderInput) (models.Folder, error) {
	if in.Name == "" {
		return models.Folder{}, newInvalid("folder name is required")
	}

	departmentID := in.DepartmentID
	var parent models.Folder
	if in.ParentID != nil {
		var err error
		parent, err = s.folders.GetByID(ctx, nil, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Folder{}, newNotFound("parent folder not found")
			}
			return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to load parent folder", err)
		}
		if departmentID == 0 {
			departmentID = parent.DepartmentID
		}
		if parent.DepartmentID != departmentID {
			return models.Folder{}, newCrossDepartment("folder must belong to the same department as its parent")
		}
	} else if !principal.IsAdmin() {
		// Department-level roots are an administrative structure.
		return models.Folder{}, newPermissionDenied("only admins can create root folders")
	}

	department, err := s.departments.GetByID(ctx, nil, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folder{}, newNotFound("department not found")
		}
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to load department", err)
	}
	if !department.Active() {
		return models.Folder{}, newConflict("department is deactivated")
	}

	count, err := s.folders.CountByParentAndName(ctx, nil, departmentID, in.ParentID, in.Name, 0)
	if err != nil {
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to check folder name", err)
	}
	if count > 0 {
		return models.Folder{}, newConflict("a folder with this name already exists here")
	}

	folder := models.Folder{
		Name:         in.Name,
		ParentID:     in.ParentID,
		DepartmentID: departmentID,
		CreatedBy:    principal.UserID,
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.folders.Create(ctx, tx, &folder); err != nil {
			return err
		}
		if !in.CopyParentPermissions || in.ParentID == nil {
			return nil
		}
		parentEntries, err := s.permissions.ListByResource(ctx, tx, models.ResourceFolder, parent.ID)
		if err != nil {
			return err
		}
		for _, entry := range parentEntries {
			copied := entry
			copied.ID = 0
			copied.ResourceID = folder.ID
			copied.GrantedBy = principal.UserID
			if err := s.permissions.Create(ctx, tx, &copied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to create folder", err)
	}

	return folder, nil
}

func (s *folderService) RenameFolder(ctx context.Context, principal Principal, folderID uint, name string) (models.Folder, error) {
	if name == "" {
		return models.Folder{}, newInvalid("folder name is required")
	}

	folder, err := s.folders.GetByID(ctx, nil, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folder{}, newNotFound("folder not found")
		}
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	count, err := s.folders.CountByParentAndName(ctx, nil, folder.DepartmentID, folder.ParentID, name, folder.ID)
	if err != nil {
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to check folder name", err)
	}
	if count > 0 {
		return models.Folder{}, newConflict("a folder with this name already exists here")
	}

	if err := s.folders.UpdateByID(ctx, nil, folder.ID, map[string]interface{}{"name": name}); err != nil {
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to rename folder", err)
	}

	folder.Name = name
	return folder, nil
}

// MoveFolder re-validates inside the update transaction so a concurrent
// move cannot slip a cycle past the descendant check.
func (s *folderService) MoveFolder(ctx context.Context, principal Principal, folderID uint, newParentID uint) error {
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.resolver.validateMove(ctx, tx, folderID, newParentID); err != nil {
			return err
		}
		return s.folders.UpdateByID(ctx, tx, folderID, map[string]interface{}{"parent_id": newParentID})
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return newAppError(http.StatusInternalServerError, "failed to move folder", err)
	}
	return nil
}

// DeleteFolder is blocked while the folder still holds active children or
// documents; nothing cascades silently.
func (s *folderService) DeleteFolder(ctx context.Context, principal Principal, folderID uint) error {
	folder, err := s.folders.GetByID(ctx, nil, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("folder not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		childCount, err := s.folders.CountChildren(ctx, tx, folder.ID)
		if err != nil {
			return err
		}
		if childCount > 0 {
			return newConflict("folder still contains subfolders")
		}

		documentCount, err := s.documents.CountByFolder(ctx, tx, folder.ID)
		if err != nil {
			return err
		}
		if documentCount > 0 {
			return newConflict("folder still contains documents")
		}

		if err := s.permissions.DeleteByResource(ctx, tx, models.ResourceFolder, folder.ID); err != nil {
			return err
		}
		return s.folders.SoftDeleteByID(ctx, tx, folder.ID)
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return newAppError(http.StatusInternalServerError, "failed to delete folder", err)
	}
	return nil
}
