package models

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
)

type ThumbnailTask struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID   uint       `gorm:"not null;index" json:"document_id"`
	Status       string     `gorm:"type:varchar(20);default:pending;index" json:"status"`
	RetryCount   int        `gorm:"default:0" json:"retry_count"`
	MaxRetries   int        `gorm:"default:3" json:"max_retries"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}
