package model

import (
	"time"

	"gorm.io/gorm"
)

// Attachment stores metadata for raw uploaded files that are not part of a
// product's indexed image sequence (site logos, carousel sources). Derived
// webp variants are pre-generated asynchronously next to the stored object.
type Attachment struct {
	ID          uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	FileID      string         `gorm:"column:file_id;uniqueIndex:uk_attachment_file" json:"file_id"`
	OwnerType   string         `gorm:"column:owner_type;index:idx_attachment_owner" json:"owner_type,omitempty"`
	OwnerKey    string         `gorm:"column:owner_key;index:idx_attachment_owner" json:"owner_key,omitempty"`
	FileName    string         `gorm:"column:file_name" json:"file_name,omitempty"`
	ContentType string         `gorm:"column:content_type" json:"content_type,omitempty"`
	FileSize    int64          `gorm:"column:file_size" json:"file_size,omitempty"`
	Path        string         `gorm:"column:path;type:text" json:"path,omitempty"`
	URL         string         `gorm:"column:url;type:text" json:"url,omitempty"`
}

// TableName overrides gorm to use the attachment table.
func (Attachment) TableName() string {
	return "attachment"
}
