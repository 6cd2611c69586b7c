package db

import (
	"context"
	"errors"

	"github.com/vega-tools/catalog/biz/dal/model"
	"gorm.io/gorm"
)

// SiteSettingDAO wraps basic CRUD operations for the site configuration store.
type SiteSettingDAO struct{}

func NewSiteSettingDAO() *SiteSettingDAO { return &SiteSettingDAO{} }

// Create persists a new site setting.
func (dao *SiteSettingDAO) Create(ctx context.Context, db *gorm.DB, entity *model.SiteSetting) error {
	if entity == nil {
		return errors.New("site_setting must not be nil")
	}
	if entity.Key == "" {
		return errors.New("key is required")
	}
	if !model.IsValidSettingCategory(entity.Category) {
		return errors.New("unknown setting category: " + entity.Category)
	}
	if entity.Value == "" {
		return errors.New("value is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetByKey fetches a single setting by its key.
func (dao *SiteSettingDAO) GetByKey(ctx context.Context, db *gorm.DB, key string) (*model.SiteSetting, error) {
	var entity model.SiteSetting
	if err := db.WithContext(ctx).Where("key = ?", key).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ExistsByKey checks if a setting with the given key exists.
func (dao *SiteSettingDAO) ExistsByKey(ctx context.Context, db *gorm.DB, key string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.SiteSetting{}).
		Where("key = ?", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns settings ordered by key. publicOnly restricts to settings
// exposed through the public API; category filters by setting category when
// non-empty.
func (dao *SiteSettingDAO) List(ctx context.Context, db *gorm.DB, publicOnly bool, category string) ([]model.SiteSetting, error) {
	query := db.WithContext(ctx).Model(&model.SiteSetting{})
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var entities []model.SiteSetting
	if err := query.Order("key ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// UpdateValue replaces the JSON value of an existing setting and records who
// changed it.
func (dao *SiteSettingDAO) UpdateValue(ctx context.Context, db *gorm.DB, key, value string, updatedByID *uint) error {
	return db.WithContext(ctx).
		Model(&model.SiteSetting{}).
		Where("key = ?", key).
		Updates(map[string]interface{}{
			"value":         value,
			"updated_by_id": updatedByID,
		}).
		Error
}

// UpdateImageCount writes the image counter as a single atomic column update.
func (dao *SiteSettingDAO) UpdateImageCount(ctx context.Context, db *gorm.DB, id uint, count uint) error {
	return db.WithContext(ctx).
		Model(&model.SiteSetting{}).
		Where("id = ?", id).
		UpdateColumn("image_count", count).
		Error
}

// Delete removes a setting. System settings are protected one level up in
// the service; the DAO performs the raw delete.
func (dao *SiteSettingDAO) Delete(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.SiteSetting{}).Error
}
