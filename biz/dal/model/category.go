package model

import (
	"time"

	"gorm.io/gorm"
)

// Category is a node in the self-referential category tree. Root categories
// have a nil ParentID. Like products, the slug is immutable once set because
// it anchors image storage keys.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Slug        string         `gorm:"column:slug;uniqueIndex:uk_category_slug" json:"slug"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	ParentID    *uint          `gorm:"column:parent_id;index:idx_category_parent" json:"parent_id,omitempty"`
	Position    int            `gorm:"column:position;default:0" json:"position"`
	Active      bool           `gorm:"column:active;not null;default:true" json:"active"`
	ImageCount  uint           `gorm:"column:image_count;not null;default:0" json:"image_count"`
}

// TableName overrides gorm to use the category table.
func (Category) TableName() string {
	return "category"
}
