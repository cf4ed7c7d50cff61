package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"docvault/config"
	"docvault/models"
	"docvault/repositories"
)

type versionFixture struct {
	documents *fakeDocumentRepo
	versions  *fakeVersionRepo
	locks     *fakeLocker
	blobs     *fakeBlobStore
	notifier  *captureNotifier
	thumbs    *captureEnqueuer
	tx        *fakeTxManager
	service   VersionService
}

func newVersionFixture() *versionFixture {
	config.AppConfig = &config.Config{
		Storage: config.StorageConfig{TimeoutMs: 1000, WriteRetries: 1},
	}
	f := &versionFixture{
		documents: newFakeDocumentRepo(),
		versions:  newFakeVersionRepo(),
		locks:     &fakeLocker{},
		blobs:     newFakeBlobStore(),
		notifier:  &captureNotifier{},
		thumbs:    &captureEnqueuer{},
		tx:        &fakeTxManager{},
	}
	f.service = NewVersionService(f.tx, f.documents, f.versions, f.locks, f.blobs, f.notifier, f.thumbs)
	return f
}

func (f *versionFixture) seedDocument() models.Document {
	f.blobs.objects["key-v1"] = []byte("original")
	return f.documents.add(models.Document{
		ID: 1, Title: "handbook", ObjectKey: "key-v1", FileURL: "https://blob.example/key-v1",
		FileType: "pdf", FileSize: 8, FolderID: 3, DepartmentID: 1, UploadedBy: 5, Version: 1,
	})
}

func replaceInput(content string) ReplaceInput {
	return ReplaceInput{
		Reader:      bytes.NewReader([]byte(content)),
		Size:        int64(len(content)),
		ContentType: "application/pdf",
	}
}

func TestReplaceArchivesPriorStateAndBumpsCounter(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	actor := Principal{UserID: 9, Role: models.RoleMember}

	snapshot, err := f.service.Replace(context.Background(), actor, 1, replaceInput("second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.VersionNumber != 1 || snapshot.ObjectKey != "key-v1" {
		t.Fatalf("expected the pre-replace state archived, got %+v", snapshot)
	}
	if snapshot.UploadedBy != 5 {
		t.Fatalf("snapshot must keep the previous uploader, got %d", snapshot.UploadedBy)
	}
	if snapshot.ChangeNote != "file replaced" {
		t.Fatalf("unexpected default change note: %q", snapshot.ChangeNote)
	}

	document := f.documents.documents[1]
	if document.Version != 2 {
		t.Fatalf("expected counter 2, got %d", document.Version)
	}
	if document.ObjectKey == "key-v1" || !strings.HasPrefix(document.ObjectKey, "documents/") {
		t.Fatalf("expected a fresh object key, got %q", document.ObjectKey)
	}
	if document.UploadedBy != 9 {
		t.Fatalf("document must record the new uploader, got %d", document.UploadedBy)
	}
	if _, ok := f.blobs.objects[document.ObjectKey]; !ok {
		t.Fatalf("new object must exist in storage before the pointer moved")
	}
	if f.locks.released != 1 {
		t.Fatalf("lock must be released exactly once, got %d", f.locks.released)
	}
	if len(f.notifier.pushed) != 1 || f.notifier.pushed[0].UserID != 5 {
		t.Fatalf("expected the previous uploader to be notified, got %+v", f.notifier.pushed)
	}
}

func TestRepeatedReplaceGrowsHistoryMonotonically(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	actor := Principal{UserID: 9, Role: models.RoleMember}

	for _, content := range []string{"second", "third", "fourth"} {
		if _, err := f.service.Replace(context.Background(), actor, 1, replaceInput(content)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := f.documents.documents[1].Version; got != 4 {
		t.Fatalf("expected counter 4 after three replaces, got %d", got)
	}

	history, err := f.service.ListVersions(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected one archived row per replace, got %d", len(history))
	}
	// newest first
	for i, want := range []int{3, 2, 1} {
		if history[i].VersionNumber != want {
			t.Fatalf("history[%d]: expected version %d, got %d", i, want, history[i].VersionNumber)
		}
	}
}

func TestRestoreMintsNewVersionPointingAtOldObject(t *testing.T) {
	f := newVersionFixture()
	f.documents.add(models.Document{
		ID: 1, Title: "handbook", ObjectKey: "key-v3", FileType: "pdf",
		FileSize: 30, FolderID: 3, DepartmentID: 1, UploadedBy: 5, Version: 3,
	})
	f.blobs.objects["key-v1"] = []byte("v1 bytes")
	f.blobs.objects["key-v3"] = []byte("v3 bytes longer content here.")
	target := f.versions.add(models.DocumentVersion{
		DocumentID: 1, VersionNumber: 1, ObjectKey: "key-v1",
		FileURL: "https://blob.example/key-v1", FileSize: 8, UploadedBy: 5,
	})
	f.versions.add(models.DocumentVersion{
		DocumentID: 1, VersionNumber: 2, ObjectKey: "key-v2", UploadedBy: 5,
	})
	actor := Principal{UserID: 9, Role: models.RoleMember}

	backup, err := f.service.Restore(context.Background(), actor, 1, target.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backup.VersionNumber != 3 || backup.ObjectKey != "key-v3" {
		t.Fatalf("expected the current state archived before restore, got %+v", backup)
	}
	if backup.ChangeNote != "backup before restoring version 1" {
		t.Fatalf("unexpected change note: %q", backup.ChangeNote)
	}

	document := f.documents.documents[1]
	if document.Version != 4 {
		t.Fatalf("restore must mint a higher version, got %d", document.Version)
	}
	if document.ObjectKey != "key-v1" || document.FileSize != 8 {
		t.Fatalf("document must point at the restored object, got %+v", document)
	}
}

func TestRestoreRejectsForeignVersion(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	foreign := f.versions.add(models.DocumentVersion{DocumentID: 2, VersionNumber: 1, ObjectKey: "other"})

	_, err := f.service.Restore(context.Background(), Principal{UserID: 9}, 1, foreign.ID)
	if KindOf(err) != KindVersionMismatch {
		t.Fatalf("expected version_mismatch, got %v", err)
	}
}

func TestRestoreFailsWhenTargetObjectMissing(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	target := f.versions.add(models.DocumentVersion{DocumentID: 1, VersionNumber: 1, ObjectKey: "vanished"})

	_, err := f.service.Restore(context.Background(), Principal{UserID: 9}, 1, target.ID)
	if KindOf(err) != KindStorageWriteFailed {
		t.Fatalf("expected storage_write_failed for a missing object, got %v", err)
	}
	if f.documents.documents[1].Version != 1 {
		t.Fatalf("document must be untouched after a failed restore")
	}
}

func TestReplaceBlobFailureLeavesDocumentUntouched(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	f.blobs.putErr = errors.New("connection reset")

	_, err := f.service.Replace(context.Background(), Principal{UserID: 9}, 1, replaceInput("second"))
	if KindOf(err) != KindStorageWriteFailed {
		t.Fatalf("expected storage_write_failed, got %v", err)
	}
	if len(f.versions.versions) != 0 {
		t.Fatalf("no version row may exist after a failed write")
	}
	if got := f.documents.documents[1]; got.Version != 1 || got.ObjectKey != "key-v1" {
		t.Fatalf("document must be untouched, got %+v", got)
	}
}

func TestReplaceLockBusyRemovesOrphan(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	f.locks.acquireErr = repositories.ErrLockNotAcquired

	_, err := f.service.Replace(context.Background(), Principal{UserID: 9}, 1, replaceInput("second"))
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict while locked, got %v", err)
	}
	if len(f.blobs.removed) != 1 || !strings.HasPrefix(f.blobs.removed[0], "documents/") {
		t.Fatalf("the written object must be cleaned up, removed=%v", f.blobs.removed)
	}
}

func TestReplaceTxFailureRemovesOrphan(t *testing.T) {
	f := newVersionFixture()
	f.seedDocument()
	f.tx.err = errors.New("deadlock")

	_, err := f.service.Replace(context.Background(), Principal{UserID: 9}, 1, replaceInput("second"))
	if err == nil {
		t.Fatalf("expected the transaction failure to surface")
	}
	if len(f.blobs.removed) != 1 {
		t.Fatalf("the written object must be cleaned up, removed=%v", f.blobs.removed)
	}
	if got := f.documents.documents[1]; got.Version != 1 || got.ObjectKey != "key-v1" {
		t.Fatalf("document must be untouched, got %+v", got)
	}
}

func TestReplaceEnqueuesThumbnailForImages(t *testing.T) {
	f := newVersionFixture()
	f.blobs.objects["img-v1"] = []byte("png bytes")
	f.documents.add(models.Document{
		ID: 1, Title: "diagram", ObjectKey: "img-v1", FileType: "png",
		FolderID: 3, DepartmentID: 1, UploadedBy: 9, Version: 1,
	})

	if _, err := f.service.Replace(context.Background(), Principal{UserID: 9}, 1, replaceInput("new png")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.thumbs.documentIDs) != 1 || f.thumbs.documentIDs[0] != 1 {
		t.Fatalf("expected a thumbnail enqueue, got %v", f.thumbs.documentIDs)
	}
	// actor uploaded the document; no self-notification
	if len(f.notifier.pushed) != 0 {
		t.Fatalf("unexpected notification: %+v", f.notifier.pushed)
	}
}

func TestListVersionsMissingDocument(t *testing.T) {
	f := newVersionFixture()

	_, err := f.service.ListVersions(context.Background(), 42)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
