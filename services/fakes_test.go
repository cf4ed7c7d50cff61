package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"docvault/models"
	"docvault/repositories"

	"gorm.io/gorm"
)

type fakeTxManager struct {
	err error
}

func (m *fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeFolderRepo struct {
	folders     map[uint]models.Folder
	nextID      uint
	getErr      error
	createErr   error
	softDeleted []uint
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: map[uint]models.Folder{}, nextID: 1}
}

func (r *fakeFolderRepo) add(folder models.Folder) models.Folder {
	if folder.ID == 0 {
		folder.ID = r.nextID
	}
	if folder.ID >= r.nextID {
		r.nextID = folder.ID + 1
	}
	r.folders[folder.ID] = folder
	return folder
}

func (r *fakeFolderRepo) GetByID(_ context.Context, _ *gorm.DB, folderID uint) (models.Folder, error) {
	if r.getErr != nil {
		return models.Folder{}, r.getErr
	}
	folder, ok := r.folders[folderID]
	if !ok {
		return models.Folder{}, gorm.ErrRecordNotFound
	}
	return folder, nil
}

func (r *fakeFolderRepo) Create(_ context.Context, _ *gorm.DB, folder *models.Folder) error {
	if r.createErr != nil {
		return r.createErr
	}
	*folder = r.add(*folder)
	return nil
}

func (r *fakeFolderRepo) ListByParent(_ context.Context, _ *gorm.DB, departmentID uint, parentID *uint) ([]models.Folder, error) {
	var out []models.Folder
	for _, folder := range r.folders {
		if folder.DepartmentID == departmentID && sameParent(folder.ParentID, parentID) {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, _ *gorm.DB, folderID uint) ([]models.Folder, error) {
	var out []models.Folder
	for _, folder := range r.folders {
		if folder.ParentID != nil && *folder.ParentID == folderID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) CountByParentAndName(_ context.Context, _ *gorm.DB, departmentID uint, parentID *uint, name string, excludeID uint) (int64, error) {
	var count int64
	for _, folder := range r.folders {
		if folder.ID == excludeID {
			continue
		}
		if folder.DepartmentID == departmentID && sameParent(folder.ParentID, parentID) && folder.Name == name {
			count++
		}
	}
	return count, nil
}

func (r *fakeFolderRepo) CountChildren(_ context.Context, _ *gorm.DB, folderID uint) (int64, error) {
	children, _ := r.ListChildren(nil, nil, folderID)
	return int64(len(children)), nil
}

func (r *fakeFolderRepo) CountByDepartment(_ context.Context, _ *gorm.DB, departmentID uint) (int64, error) {
	var count int64
	for _, folder := range r.folders {
		if folder.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFolderRepo) UpdateByID(_ context.Context, _ *gorm.DB, folderID uint, updates map[string]interface{}) error {
	folder, ok := r.folders[folderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		folder.Name = name
	}
	if parentID, ok := updates["parent_id"].(uint); ok {
		id := parentID
		folder.ParentID = &id
	}
	r.folders[folderID] = folder
	return nil
}

func (r *fakeFolderRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, folderID uint) error {
	if _, ok := r.folders[folderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.folders, folderID)
	r.softDeleted = append(r.softDeleted, folderID)
	return nil
}

type fakeDocumentRepo struct {
	documents   map[uint]models.Document
	nextID      uint
	getErr      error
	updateErr   error
	softDeleted []uint
	purged      []uint
	expired     []models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: map[uint]models.Document{}, nextID: 1}
}

func (r *fakeDocumentRepo) add(document models.Document) models.Document {
	if document.ID == 0 {
		document.ID = r.nextID
	}
	if document.ID >= r.nextID {
		r.nextID = document.ID + 1
	}
	r.documents[document.ID] = document
	return document
}

func (r *fakeDocumentRepo) Create(_ context.Context, _ *gorm.DB, document *models.Document) error {
	*document = r.add(*document)
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, _ *gorm.DB, documentID uint) (models.Document, error) {
	if r.getErr != nil {
		return models.Document{}, r.getErr
	}
	document, ok := r.documents[documentID]
	if !ok {
		return models.Document{}, gorm.ErrRecordNotFound
	}
	return document, nil
}

func (r *fakeDocumentRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, documentID uint) (models.Document, error) {
	return r.GetByID(ctx, tx, documentID)
}

func (r *fakeDocumentRepo) ListByFolder(_ context.Context, _ *gorm.DB, in repositories.ListDocumentsInput) ([]models.Document, error) {
	var out []models.Document
	for _, document := range r.documents {
		if document.FolderID == in.FolderID {
			out = append(out, document)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocumentRepo) CountByFolder(_ context.Context, _ *gorm.DB, folderID uint) (int64, error) {
	var count int64
	for _, document := range r.documents {
		if document.FolderID == folderID {
			count++
		}
	}
	return count, nil
}

func (r *fakeDocumentRepo) CountByFolderAndTitle(_ context.Context, _ *gorm.DB, folderID uint, title string, excludeID uint) (int64, error) {
	var count int64
	for _, document := range r.documents {
		if document.ID != excludeID && document.FolderID == folderID && document.Title == title {
			count++
		}
	}
	return count, nil
}

func (r *fakeDocumentRepo) Search(context.Context, *gorm.DB, repositories.SearchDocumentsInput) ([]models.Document, int64, error) {
	return nil, 0, nil
}

func (r *fakeDocumentRepo) UpdateByID(_ context.Context, _ *gorm.DB, documentID uint, updates map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	document, ok := r.documents[documentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if version, ok := updates["version"].(int); ok {
		document.Version = version
	}
	if key, ok := updates["object_key"].(string); ok {
		document.ObjectKey = key
	}
	if url, ok := updates["file_url"].(string); ok {
		document.FileURL = url
	}
	if size, ok := updates["file_size"].(int64); ok {
		document.FileSize = size
	}
	if uploadedBy, ok := updates["uploaded_by"].(uint); ok {
		document.UploadedBy = uploadedBy
	}
	if title, ok := updates["title"].(string); ok {
		document.Title = title
	}
	if name, ok := updates["original_name"].(string); ok {
		document.OriginalName = name
	}
	if folderID, ok := updates["folder_id"].(uint); ok {
		document.FolderID = folderID
	}
	if tags, ok := updates["tags"].(string); ok {
		document.Tags = tags
	}
	if metadata, ok := updates["metadata"].(string); ok {
		document.Metadata = metadata
	}
	if thumbKey, ok := updates["thumbnail_key"].(string); ok {
		document.ThumbnailKey = thumbKey
	}
	r.documents[documentID] = document
	return nil
}

func (r *fakeDocumentRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, documentID uint, _ uint) error {
	if _, ok := r.documents[documentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.documents, documentID)
	r.softDeleted = append(r.softDeleted, documentID)
	return nil
}

func (r *fakeDocumentRepo) ListDeletedBefore(context.Context, *gorm.DB, time.Time) ([]models.Document, error) {
	return append([]models.Document(nil), r.expired...), nil
}

func (r *fakeDocumentRepo) UnscopedDeleteByID(_ context.Context, _ *gorm.DB, documentID uint) error {
	r.purged = append(r.purged, documentID)
	return nil
}

type fakeVersionRepo struct {
	versions  []models.DocumentVersion
	nextID    uint
	createErr error
	deleted   []uint
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{nextID: 1}
}

func (r *fakeVersionRepo) add(version models.DocumentVersion) models.DocumentVersion {
	if version.ID == 0 {
		version.ID = r.nextID
	}
	if version.ID >= r.nextID {
		r.nextID = version.ID + 1
	}
	r.versions = append(r.versions, version)
	return version
}

func (r *fakeVersionRepo) Create(_ context.Context, _ *gorm.DB, version *models.DocumentVersion) error {
	if r.createErr != nil {
		return r.createErr
	}
	*version = r.add(*version)
	return nil
}

func (r *fakeVersionRepo) GetByID(_ context.Context, _ *gorm.DB, versionID uint) (models.DocumentVersion, error) {
	for _, version := range r.versions {
		if version.ID == versionID {
			return version, nil
		}
	}
	return models.DocumentVersion{}, gorm.ErrRecordNotFound
}

func (r *fakeVersionRepo) ListByDocument(_ context.Context, _ *gorm.DB, documentID uint) ([]models.DocumentVersion, error) {
	var out []models.DocumentVersion
	for _, version := range r.versions {
		if version.DocumentID == documentID {
			out = append(out, version)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (r *fakeVersionRepo) DeleteByDocument(_ context.Context, _ *gorm.DB, documentID uint) error {
	kept := r.versions[:0]
	for _, version := range r.versions {
		if version.DocumentID != documentID {
			kept = append(kept, version)
		}
	}
	r.versions = kept
	r.deleted = append(r.deleted, documentID)
	return nil
}

type fakePermissionRepo struct {
	entries          []models.PermissionEntry
	nextID           uint
	deletedResources []uint
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{nextID: 1}
}

func (r *fakePermissionRepo) add(entry models.PermissionEntry) models.PermissionEntry {
	if entry.ID == 0 {
		entry.ID = r.nextID
	}
	if entry.ID >= r.nextID {
		r.nextID = entry.ID + 1
	}
	r.entries = append(r.entries, entry)
	return entry
}

func (r *fakePermissionRepo) ListByResource(_ context.Context, _ *gorm.DB, resourceType models.ResourceType, resourceID uint) ([]models.PermissionEntry, error) {
	var out []models.PermissionEntry
	for _, entry := range r.entries {
		if entry.ResourceType == resourceType && entry.ResourceID == resourceID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakePermissionRepo) GetByResourceAndUser(_ context.Context, _ *gorm.DB, resourceType models.ResourceType, resourceID uint, userID uint) (models.PermissionEntry, error) {
	for _, entry := range r.entries {
		if entry.ResourceType == resourceType && entry.ResourceID == resourceID && entry.UserID != nil && *entry.UserID == userID {
			return entry, nil
		}
	}
	return models.PermissionEntry{}, gorm.ErrRecordNotFound
}

func (r *fakePermissionRepo) GetByResourceAndRole(_ context.Context, _ *gorm.DB, resourceType models.ResourceType, resourceID uint, role string) (models.PermissionEntry, error) {
	for _, entry := range r.entries {
		if entry.ResourceType == resourceType && entry.ResourceID == resourceID && entry.UserID == nil && entry.Role == role {
			return entry, nil
		}
	}
	return models.PermissionEntry{}, gorm.ErrRecordNotFound
}

func (r *fakePermissionRepo) GetByID(_ context.Context, _ *gorm.DB, entryID uint) (models.PermissionEntry, error) {
	for _, entry := range r.entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return models.PermissionEntry{}, gorm.ErrRecordNotFound
}

func (r *fakePermissionRepo) Create(_ context.Context, _ *gorm.DB, entry *models.PermissionEntry) error {
	*entry = r.add(*entry)
	return nil
}

func (r *fakePermissionRepo) UpdateByID(_ context.Context, _ *gorm.DB, entryID uint, updates map[string]interface{}) error {
	for i, entry := range r.entries {
		if entry.ID != entryID {
			continue
		}
		if v, ok := updates["can_view"].(bool); ok {
			entry.CanView = v
		}
		if v, ok := updates["can_upload"].(bool); ok {
			entry.CanUpload = v
		}
		if v, ok := updates["can_edit"].(bool); ok {
			entry.CanEdit = v
		}
		if v, ok := updates["can_delete"].(bool); ok {
			entry.CanDelete = v
		}
		if v, ok := updates["can_download"].(bool); ok {
			entry.CanDownload = v
		}
		if v, ok := updates["granted_by"].(uint); ok {
			entry.GrantedBy = v
		}
		r.entries[i] = entry
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePermissionRepo) DeleteByID(_ context.Context, _ *gorm.DB, entryID uint) error {
	kept := r.entries[:0]
	found := false
	for _, entry := range r.entries {
		if entry.ID == entryID {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	if !found {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *fakePermissionRepo) DeleteByResource(_ context.Context, _ *gorm.DB, resourceType models.ResourceType, resourceID uint) error {
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.ResourceType == resourceType && entry.ResourceID == resourceID {
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	r.deletedResources = append(r.deletedResources, resourceID)
	return nil
}

type fakeLocker struct {
	acquireErr error
	acquired   []uint
	released   int
}

func (l *fakeLocker) Acquire(_ context.Context, documentID uint) (func(), error) {
	if l.acquireErr != nil {
		return nil, l.acquireErr
	}
	l.acquired = append(l.acquired, documentID)
	return func() { l.released++ }, nil
}

type fakeBlobStore struct {
	objects    map[string][]byte
	putErr     error
	confirmErr error
	removed    []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (s *fakeBlobStore) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeBlobStore) Confirm(_ context.Context, key string) (int64, error) {
	if s.confirmErr != nil {
		return 0, s.confirmErr
	}
	data, ok := s.objects[key]
	if !ok {
		return 0, errors.New("object not found")
	}
	return int64(len(data)), nil
}

func (s *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) PresignedGetURL(_ context.Context, key string, _ string, _ time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func (s *fakeBlobStore) Remove(_ context.Context, key string) error {
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *fakeBlobStore) ObjectURL(key string) string {
	return "https://blob.example/" + key
}

type captureNotifier struct {
	pushed []models.Notification
}

func (n *captureNotifier) Push(notification models.Notification) {
	n.pushed = append(n.pushed, notification)
}

type captureEnqueuer struct {
	documentIDs []uint
}

func (e *captureEnqueuer) Enqueue(documentID uint) {
	e.documentIDs = append(e.documentIDs, documentID)
}

type fakeUserRepo struct {
	users     map[uint]models.User
	nextID    uint
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(user models.User) models.User {
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) CountByUsername(_ context.Context, username string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Username == username {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	*user = r.add(*user)
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uint) (models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) ListByDepartment(context.Context, *gorm.DB, uint) ([]models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) UpdateByID(context.Context, *gorm.DB, uint, map[string]interface{}) error {
	return nil
}

type fakeDepartmentRepo struct {
	departments map[uint]models.Department
	nextID      uint
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: map[uint]models.Department{}, nextID: 1}
}

func (r *fakeDepartmentRepo) add(department models.Department) models.Department {
	if department.ID == 0 {
		department.ID = r.nextID
	}
	if department.ID >= r.nextID {
		r.nextID = department.ID + 1
	}
	r.departments[department.ID] = department
	return department
}

func (r *fakeDepartmentRepo) Create(_ context.Context, _ *gorm.DB, department *models.Department) error {
	*department = r.add(*department)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, _ *gorm.DB, departmentID uint) (models.Department, error) {
	department, ok := r.departments[departmentID]
	if !ok {
		return models.Department{}, gorm.ErrRecordNotFound
	}
	return department, nil
}

func (r *fakeDepartmentRepo) CountByName(_ context.Context, _ *gorm.DB, name string, excludeID uint) (int64, error) {
	var count int64
	for _, department := range r.departments {
		if department.ID != excludeID && department.Name == name {
			count++
		}
	}
	return count, nil
}

func (r *fakeDepartmentRepo) List(_ context.Context, _ *gorm.DB, activeOnly bool) ([]models.Department, error) {
	var out []models.Department
	for _, department := range r.departments {
		if activeOnly && !department.Active() {
			continue
		}
		out = append(out, department)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDepartmentRepo) UpdateByID(_ context.Context, _ *gorm.DB, departmentID uint, updates map[string]interface{}) error {
	department, ok := r.departments[departmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		department.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		value := active
		department.IsActive = &value
	}
	r.departments[departmentID] = department
	return nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
	purgedBefore  []time.Time
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) Create(_ context.Context, _ *gorm.DB, notification *models.Notification) error {
	if notification.ID == 0 {
		notification.ID = r.nextID
	}
	if notification.ID >= r.nextID {
		r.nextID = notification.ID + 1
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uint, unreadOnly bool, offset, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		out = append(out, notification)
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, _ *gorm.DB, userID uint) (int64, error) {
	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _ *gorm.DB, notificationID uint, userID uint, readAt time.Time) error {
	for i, notification := range r.notifications {
		if notification.ID == notificationID && notification.UserID == userID {
			notification.IsRead = true
			notification.ReadAt = &readAt
			r.notifications[i] = notification
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ *gorm.DB, userID uint, readAt time.Time) error {
	for i, notification := range r.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
			notification.ReadAt = &readAt
			r.notifications[i] = notification
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByIDAndUser(_ context.Context, _ *gorm.DB, notificationID uint, userID uint) error {
	kept := r.notifications[:0]
	for _, notification := range r.notifications {
		if notification.ID == notificationID && notification.UserID == userID {
			continue
		}
		kept = append(kept, notification)
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) DeleteReadBefore(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	r.purgedBefore = append(r.purgedBefore, cutoff)
	return 0, nil
}

type fakeAuditRepo struct {
	entries      []models.AuditLogEntry
	nextID       uint
	purgedBefore []time.Time
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{nextID: 1}
}

func (r *fakeAuditRepo) Create(_ context.Context, _ *gorm.DB, entry *models.AuditLogEntry) error {
	if entry.ID == 0 {
		entry.ID = r.nextID
	}
	if entry.ID >= r.nextID {
		r.nextID = entry.ID + 1
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ *gorm.DB, in repositories.AuditListInput) ([]models.AuditLogEntry, int64, error) {
	var out []models.AuditLogEntry
	for _, entry := range r.entries {
		if in.UserID != 0 && entry.UserID != in.UserID {
			continue
		}
		if in.Action != "" && entry.Action != in.Action {
			continue
		}
		if in.ResourceType != "" && entry.ResourceType != in.ResourceType {
			continue
		}
		if in.DepartmentID != 0 && entry.DepartmentID != in.DepartmentID {
			continue
		}
		out = append(out, entry)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) DeleteBefore(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	r.purgedBefore = append(r.purgedBefore, cutoff)
	return 0, nil
}
