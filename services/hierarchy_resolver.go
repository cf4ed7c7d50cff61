package services

import (
	"context"
	"errors"
	"net/http"

	"docvault/config"
	"docvault/repositories"

	"gorm.io/gorm"
)

type BreadcrumbItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// hierarchyResolver walks folder parent references. It is read-only; callers
// apply moves that pass validation.
type hierarchyResolver struct {
	folders repositories.FolderRepository
}

func maxFolderDepth() int {
	if config.AppConfig != nil && config.AppConfig.Hierarchy.MaxDepth > 0 {
		return config.AppConfig.Hierarchy.MaxDepth
	}
	return 64
}

// breadcrumb returns the ancestor chain ordered root first, the folder
// itself last. A repeated id or a chain longer than the configured maximum
// means corrupted parent references and fails with CycleDetected.
func (r hierarchyResolver) breadcrumb(ctx context.Context, tx *gorm.DB, folderID uint) ([]BreadcrumbItem, error) {
	visited := map[uint]bool{}
	chain := make([]BreadcrumbItem, 0, 8)

	currentID := folderID
	for depth := 0; ; depth++ {
		if depth > maxFolderDepth() {
			return nil, newCycleDetected("folder chain exceeds maximum depth")
		}
		if visited[currentID] {
			return nil, newCycleDetected("folder chain contains a cycle")
		}
		visited[currentID] = true

		folder, err := r.folders.GetByID(ctx, tx, currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newNotFound("folder not found")
			}
			return nil, newAppError(http.StatusInternalServerError, "failed to load folder", err)
		}

		chain = append(chain, BreadcrumbItem{ID: folder.ID, Name: folder.Name})
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}

	// walked child-to-root; reverse in place
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// validateMove checks that newParentID is a legal parent for folderID:
// same department, not the folder itself, and not inside its subtree.
func (r hierarchyResolver) validateMove(ctx context.Context, tx *gorm.DB, folderID uint, newParentID uint) error {
	folder, err := r.folders.GetByID(ctx, tx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("folder not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	parent, err := r.folders.GetByID(ctx, tx, newParentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("target parent folder not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to load target parent", err)
	}

	if parent.DepartmentID != folder.DepartmentID {
		return newCrossDepartment("folder and target parent belong to different departments")
	}
	if parent.ID == folder.ID {
		return newCycleDetected("folder cannot be its own parent")
	}

	descendants, err := r.descendantSet(ctx, tx, folder.ID)
	if err != nil {
		return err
	}
	if descendants[parent.ID] {
		return newCycleDetected("target parent is a descendant of the folder being moved")
	}
	return nil
}

// descendantSet collects ids of every folder below root via breadth-first
// traversal, bounded by the department's folder count as a corruption guard.
func (r hierarchyResolver) descendantSet(ctx context.Context, tx *gorm.DB, rootID uint) (map[uint]bool, error) {
	root, err := r.folders.GetByID(ctx, tx, rootID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFound("folder not found")
		}
		return nil, newAppError(http.StatusInternalServerError, "failed to load folder", err)
	}

	bound, err := r.folders.CountByDepartment(ctx, tx, root.DepartmentID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to count department folders", err)
	}

	descendants := map[uint]bool{}
	queue := []uint{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := r.folders.ListChildren(ctx, tx, current)
		if err != nil {
			return nil, newAppError(http.StatusInternalServerError, "failed to list child folders", err)
		}
		for _, child := range children {
			if descendants[child.ID] {
				continue
			}
			descendants[child.ID] = true
			if int64(len(descendants)) > bound {
				return nil, newCycleDetected("descendant traversal exceeds department folder count")
			}
			queue = append(queue, child.ID)
		}
	}
	return descendants, nil
}
