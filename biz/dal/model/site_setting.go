package model

import (
	"time"

	"gorm.io/gorm"
)

// Site setting categories. A setting must belong to exactly one of these.
const (
	SettingCategoryGeneral    = "general"
	SettingCategoryAppearance = "appearance"
	SettingCategoryContact    = "contact"
	SettingCategorySections   = "sections"
	SettingCategoryFeatures   = "features"
)

// SettingCategories lists the valid setting categories.
var SettingCategories = []string{
	SettingCategoryGeneral,
	SettingCategoryAppearance,
	SettingCategoryContact,
	SettingCategorySections,
	SettingCategoryFeatures,
}

// IsValidSettingCategory reports whether cat is a known setting category.
func IsValidSettingCategory(cat string) bool {
	for _, c := range SettingCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// SiteSetting is one entry of the key/value site configuration store.
// Value holds arbitrary JSON edited either through a form or as raw JSON.
// System settings are seeded from YAML defaults and can be reset to them.
// A setting may own images (logo, carousel), so it carries an image count
// like the catalog entities.
type SiteSetting struct {
	ID          uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Key         string         `gorm:"column:key;uniqueIndex:uk_setting_key;not null" json:"key"`
	Category    string         `gorm:"column:category;not null;index:idx_setting_category" json:"category"`
	Value       string         `gorm:"column:value;type:json;not null" json:"value"`
	IsSystem    bool           `gorm:"column:is_system;not null;default:false" json:"is_system"`
	IsPublic    bool           `gorm:"column:is_public;not null;default:false;index:idx_setting_public" json:"is_public"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	UpdatedByID *uint          `gorm:"column:updated_by_id" json:"updated_by_id,omitempty"`
	ImageCount  uint           `gorm:"column:image_count;not null;default:0" json:"image_count"`
}

// TableName overrides gorm to use the site_setting table.
func (SiteSetting) TableName() string {
	return "site_setting"
}
