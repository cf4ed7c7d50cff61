package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"docvault/models"
	"docvault/repositories"

	"gorm.io/gorm"
)

type GrantInput struct {
	UserID      *uint
	Role        string
	CanView     bool
	CanUpload   bool
	CanEdit     bool
	CanDelete   bool
	CanDownload bool
}

type PermissionService interface {
	// CanAccess decides whether principal holds right on the referenced
	// resource. It returns NotFound when the resource is missing; it never
	// raises PermissionDenied itself. Translating a false result into an
	// error is the caller's job.
	CanAccess(ctx context.Context, principal Principal, ref ResourceRef, right models.AccessRight) (bool, error)
	ListEntries(ctx context.Context, principal Principal, ref ResourceRef) ([]models.PermissionEntry, error)
	Grant(ctx context.Context, principal Principal, ref ResourceRef, in GrantInput) (models.PermissionEntry, error)
	Revoke(ctx context.Context, principal Principal, entryID uint) error
}

type permissionService struct {
	folders     repositories.FolderRepository
	documents   repositories.DocumentRepository
	permissions repositories.PermissionRepository
	notifier    Notifier
}

func NewPermissionService(
	folders repositories.FolderRepository,
	documents repositories.DocumentRepository,
	permissions repositories.PermissionRepository,
	notifier Notifier,
) PermissionService {
	return &permissionService{
		folders:     folders,
		documents:   documents,
		permissions: permissions,
		notifier:    notifier,
	}
}

// entryIndex maps principal keys to their explicit entries so evaluation is
// a lookup, not a scan over the resource's entry list.
type entryIndex struct {
	byUser map[uint]models.PermissionEntry
	byRole map[string]models.PermissionEntry
}

func indexEntries(entries []models.PermissionEntry) entryIndex {
	idx := entryIndex{
		byUser: make(map[uint]models.PermissionEntry, len(entries)),
		byRole: make(map[string]models.PermissionEntry, len(entries)),
	}
	for _, entry := range entries {
		if entry.UserID != nil {
			if _, dup := idx.byUser[*entry.UserID]; !dup {
				idx.byUser[*entry.UserID] = entry
			}
			continue
		}
		if entry.Role != "" {
			if _, dup := idx.byRole[entry.Role]; !dup {
				idx.byRole[entry.Role] = entry
			}
		}
	}
	return idx
}

// evaluate is the pure decision function. Rule order, first match wins:
// superadmin bypass; explicit user entry (terminal even when it lacks the
// right: a restrictive user entry is never superseded by a role entry);
// role entry; then the same two checks against the owning folder's entries
// when the resource is a document with no matching entry of its own. The
// folder step is a single level: folder entries reach their direct
// documents, never nested subfolders.
func evaluate(principal Principal, entries, parentEntries []models.PermissionEntry, right models.AccessRight) bool {
	if principal.Role == models.RoleSuperadmin {
		return true
	}

	idx := indexEntries(entries)
	if entry, ok := idx.byUser[principal.UserID]; ok {
		return entry.Allows(right)
	}
	if entry, ok := idx.byRole[principal.Role]; ok {
		return entry.Allows(right)
	}

	if parentEntries != nil {
		parentIdx := indexEntries(parentEntries)
		if entry, ok := parentIdx.byUser[principal.UserID]; ok {
			return entry.Allows(right)
		}
		if entry, ok := parentIdx.byRole[principal.Role]; ok {
			return entry.Allows(right)
		}
	}
	return false
}

func (s *permissionService) CanAccess(ctx context.Context, principal Principal, ref ResourceRef, right models.AccessRight) (bool, error) {
	if !models.ValidRight(right) {
		return false, newInvalid("unknown access right")
	}

	entries, parentEntries, err := s.loadEntries(ctx, ref)
	if err != nil {
		return false, err
	}
	return evaluate(principal, entries, parentEntries, right), nil
}

// loadEntries returns the resource's own entries plus, for documents, the
// owning folder's entries for the one-level inheritance step.
func (s *permissionService) loadEntries(ctx context.Context, ref ResourceRef) ([]models.PermissionEntry, []models.PermissionEntry, error) {
	switch ref.Type {
	case models.ResourceFolder:
		if _, err := s.folders.GetByID(ctx, nil, ref.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, newNotFound("folder not found")
			}
			return nil, nil, newAppError(http.StatusInternalServerError, "failed to load folder", err)
		}
		entries, err := s.permissions.ListByResource(ctx, nil, models.ResourceFolder, ref.ID)
		if err != nil {
			return nil, nil, newAppError(http.StatusInternalServerError, "failed to load folder permissions", err)
		}
		return entries, nil, nil

	case models.ResourceDocument:
		document, err := s.documents.GetByID(ctx, nil, ref.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, newNotFound("document not found")
			}
			return nil, nil, newAppError(http.StatusInternalServerError, "failed to load document", err)
		}
		entries, err := s.permissions.ListByResource(ctx, nil, models.ResourceDocument, ref.ID)
		if err != nil {
			return nil, nil, newAppError(http.StatusInternalServerError, "failed to load document permissions", err)
		}
		parentEntries, err := s.permissions.ListByResource(ctx, nil, models.ResourceFolder, document.FolderID)
		if err != nil {
			return nil, nil, newAppError(http.StatusInternalServerError, "failed to load folder permissions", err)
		}
		return entries, parentEntries, nil
	}
	return nil, nil, newInvalid("unknown resource type")
}

func (s *permissionService) ListEntries(ctx context.Context, principal Principal, ref ResourceRef) ([]models.PermissionEntry, error) {
	allowed, err := s.CanAccess(ctx, principal, ref, models.RightView)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, newPermissionDenied("view access required")
	}

	entries, err := s.permissions.ListByResource(ctx, nil, ref.Type, ref.ID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to load permissions", err)
	}
	return entries, nil
}

func (s *permissionService) Grant(ctx context.Context, principal Principal, ref ResourceRef, in GrantInput) (models.PermissionEntry, error) {
	if (in.UserID == nil) == (in.Role == "") {
		return models.PermissionEntry{}, newInvalid("exactly one of user_id or role must be set")
	}
	if in.Role != "" && !models.ValidRole(in.Role) {
		return models.PermissionEntry{}, newInvalid("unknown role")
	}

	allowed, err := s.CanAccess(ctx, principal, ref, models.RightEdit)
	if err != nil {
		return models.PermissionEntry{}, err
	}
	if !allowed {
		return models.PermissionEntry{}, newPermissionDenied("edit access required to manage permissions")
	}

	updates := map[string]interface{}{
		"can_view":     in.CanView,
		"can_upload":   in.CanUpload,
		"can_edit":     in.CanEdit,
		"can_delete":   in.CanDelete,
		"can_download": in.CanDownload,
		"granted_by":   principal.UserID,
	}

	// At most one entry per (resource, user) and per (resource, role):
	// re-granting overwrites the existing entry's access set.
	var existing models.PermissionEntry
	if in.UserID != nil {
		existing, err = s.permissions.GetByResourceAndUser(ctx, nil, ref.Type, ref.ID, *in.UserID)
	} else {
		existing, err = s.permissions.GetByResourceAndRole(ctx, nil, ref.Type, ref.ID, in.Role)
	}
	switch {
	case err == nil:
		if err := s.permissions.UpdateByID(ctx, nil, existing.ID, updates); err != nil {
			return models.PermissionEntry{}, newAppError(http.StatusInternalServerError, "failed to update permission entry", err)
		}
		entry, err := s.permissions.GetByID(ctx, nil, existing.ID)
		if err != nil {
			return models.PermissionEntry{}, newAppError(http.StatusInternalServerError, "failed to reload permission entry", err)
		}
		s.notifyGrant(entry, ref)
		return entry, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := models.PermissionEntry{
			ResourceType: ref.Type,
			ResourceID:   ref.ID,
			UserID:       in.UserID,
			Role:         in.Role,
			CanView:      in.CanView,
			CanUpload:    in.CanUpload,
			CanEdit:      in.CanEdit,
			CanDelete:    in.CanDelete,
			CanDownload:  in.CanDownload,
			GrantedBy:    principal.UserID,
		}
		if err := s.permissions.Create(ctx, nil, &entry); err != nil {
			return models.PermissionEntry{}, newAppError(http.StatusInternalServerError, "failed to create permission entry", err)
		}
		s.notifyGrant(entry, ref)
		return entry, nil
	default:
		return models.PermissionEntry{}, newAppError(http.StatusInternalServerError, "failed to look up permission entry", err)
	}
}

func (s *permissionService) notifyGrant(entry models.PermissionEntry, ref ResourceRef) {
	if s.notifier == nil || entry.UserID == nil {
		return
	}
	notification := models.Notification{
		UserID:  *entry.UserID,
		Type:    models.NotificationPermissionGrant,
		Message: fmt.Sprintf("you were granted access to %s #%d", ref.Type, ref.ID),
	}
	if ref.Type == models.ResourceDocument {
		id := ref.ID
		notification.DocumentID = &id
	} else {
		id := ref.ID
		notification.FolderID = &id
	}
	s.notifier.Push(notification)
}

func (s *permissionService) Revoke(ctx context.Context, principal Principal, entryID uint) error {
	entry, err := s.permissions.GetByID(ctx, nil, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("permission entry not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to load permission entry", err)
	}

	allowed, err := s.CanAccess(ctx, principal, ResourceRef{Type: entry.ResourceType, ID: entry.ResourceID}, models.RightEdit)
	if err != nil {
		return err
	}
	if !allowed {
		return newPermissionDenied("edit access required to manage permissions")
	}

	if err := s.permissions.DeleteByID(ctx, nil, entryID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete permission entry", err)
	}
	return nil
}
