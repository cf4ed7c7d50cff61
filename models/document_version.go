package models

import "time"

// DocumentVersion is an immutable snapshot of a document's storage state
// taken immediately before that state was overwritten. VersionNumber is the
// document's version counter at snapshot time, so the pair
// (document_id, version_number) is unique. Rows are never updated.
type DocumentVersion struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID    uint      `gorm:"not null;uniqueIndex:idx_doc_version,priority:1" json:"document_id"`
	VersionNumber int       `gorm:"not null;uniqueIndex:idx_doc_version,priority:2" json:"version_number"`
	ObjectKey     string    `gorm:"type:varchar(500);not null" json:"object_key"`
	FileURL       string    `gorm:"type:varchar(1000)" json:"file_url"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	UploadedBy    uint      `gorm:"not null" json:"uploaded_by"`
	ChangeNote    string    `gorm:"type:varchar(500)" json:"change_note"`
	CreatedAt     time.Time `gorm:"index;autoCreateTime" json:"created_at"`
}
