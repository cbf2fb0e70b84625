package upload

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadedFile is immutable after creation apart from soft deletion.
type UploadedFile struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_uploaded_files_user_created,priority:1" json:"user_id"`
	OriginalName    string         `gorm:"type:text;not null" json:"original_name"`
	Filename        string         `gorm:"type:text;not null;uniqueIndex" json:"filename"`
	FilePath        string         `gorm:"type:text;not null" json:"file_path"`
	FileType        string         `gorm:"type:text" json:"file_type"`
	FileSize        int64          `gorm:"not null" json:"file_size"`
	MimeType        string         `gorm:"type:text;not null" json:"mime_type"`
	ExtractedText   *string        `gorm:"type:text" json:"extracted_text"`
	IsProcessed     bool           `gorm:"not null;default:false" json:"is_processed"`
	ProcessingError *string        `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time      `gorm:"index:idx_uploaded_files_user_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
