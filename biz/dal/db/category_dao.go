package db

import (
	"context"
	"errors"

	"github.com/vega-tools/catalog/biz/dal/model"
	"gorm.io/gorm"
)

// CategoryDAO wraps basic CRUD operations for category entities.
type CategoryDAO struct{}

func NewCategoryDAO() *CategoryDAO { return &CategoryDAO{} }

// Create persists a new category.
func (dao *CategoryDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Category) error {
	if entity == nil {
		return errors.New("category must not be nil")
	}
	if entity.Name == "" {
		return errors.New("name is required")
	}
	if entity.Slug == "" {
		return errors.New("slug is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// Update persists changes to an existing category, keeping the slug fixed.
func (dao *CategoryDAO) Update(ctx context.Context, db *gorm.DB, entity *model.Category) error {
	if entity == nil || entity.ID == 0 {
		return errors.New("category with ID is required")
	}
	return db.WithContext(ctx).Omit("slug").Save(entity).Error
}

// GetByID fetches a single category by primary key.
func (dao *CategoryDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.Category, error) {
	var entity model.Category
	if err := db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetBySlug fetches a single category by slug.
func (dao *CategoryDAO) GetBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Category, error) {
	var entity model.Category
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// SlugExists checks whether a slug is already taken.
func (dao *CategoryDAO) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAll returns every category ordered by position then name.
// When activeOnly is set, inactive categories are skipped.
func (dao *CategoryDAO) ListAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]model.Category, error) {
	query := db.WithContext(ctx).Model(&model.Category{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var entities []model.Category
	if err := query.Order("position ASC, name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// ListRoots returns top-level categories ordered by position then name.
func (dao *CategoryDAO) ListRoots(ctx context.Context, db *gorm.DB, activeOnly bool) ([]model.Category, error) {
	query := db.WithContext(ctx).Model(&model.Category{}).Where("parent_id IS NULL")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var entities []model.Category
	if err := query.Order("position ASC, name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// ListByIDs returns the categories with the given ids. Order follows the
// database, not the input.
func (dao *CategoryDAO) ListByIDs(ctx context.Context, db *gorm.DB, ids []uint, activeOnly bool) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := db.WithContext(ctx).Model(&model.Category{}).Where("id IN ?", ids)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var entities []model.Category
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// ListChildren returns the direct children of a category.
func (dao *CategoryDAO) ListChildren(ctx context.Context, db *gorm.DB, parentID uint, activeOnly bool) ([]model.Category, error) {
	query := db.WithContext(ctx).Model(&model.Category{}).Where("parent_id = ?", parentID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var entities []model.Category
	if err := query.Order("position ASC, name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// UpdateImageCount writes the image counter as a single atomic column update.
func (dao *CategoryDAO) UpdateImageCount(ctx context.Context, db *gorm.DB, id uint, count uint) error {
	return db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		UpdateColumn("image_count", count).
		Error
}

// Delete removes a category.
func (dao *CategoryDAO) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Delete(&model.Category{}, id).Error
}
