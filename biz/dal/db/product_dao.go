package db

import (
	"context"
	"errors"

	"github.com/vega-tools/catalog/biz/dal/model"
	"gorm.io/gorm"
)

// DefaultPerPage bounds list queries when the caller does not paginate.
const DefaultPerPage = 25

// ProductFilter narrows product list queries. Zero values mean "no filter".
type ProductFilter struct {
	PublishedOnly bool
	CategoryIDs   []uint
	Brand         string
	MinPrice      *float64
	MaxPrice      *float64
	OnSale        bool
	Search        string
	IDs           []uint
	Page          int
	PerPage       int
}

func (f ProductFilter) limit() int {
	if f.PerPage <= 0 {
		return DefaultPerPage
	}
	return f.PerPage
}

func (f ProductFilter) offset() int {
	if f.Page < 2 {
		return 0
	}
	return (f.Page - 1) * f.limit()
}

// ProductDAO wraps basic CRUD and filtered queries for products.
type ProductDAO struct{}

func NewProductDAO() *ProductDAO { return &ProductDAO{} }

// Create persists a new product.
func (dao *ProductDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Product) error {
	if entity == nil {
		return errors.New("product must not be nil")
	}
	if entity.Name == "" {
		return errors.New("name is required")
	}
	if entity.SKU == "" {
		return errors.New("sku is required")
	}
	if entity.Price < 0 {
		return errors.New("price must not be negative")
	}
	if entity.DiscountedPrice != nil && *entity.DiscountedPrice >= entity.Price {
		return errors.New("discounted price must be less than price")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// Update persists changes to an existing product. The slug is never
// rewritten here; storage keys depend on it.
func (dao *ProductDAO) Update(ctx context.Context, db *gorm.DB, entity *model.Product) error {
	if entity == nil || entity.ID == 0 {
		return errors.New("product with ID is required")
	}
	if entity.DiscountedPrice != nil && *entity.DiscountedPrice >= entity.Price {
		return errors.New("discounted price must be less than price")
	}
	return db.WithContext(ctx).Omit("slug").Save(entity).Error
}

// GetByID fetches a single product by primary key.
func (dao *ProductDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.Product, error) {
	var entity model.Product
	if err := db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetBySlug fetches a single product by slug.
func (dao *ProductDAO) GetBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.Product, error) {
	var entity model.Product
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// SlugExists checks whether a slug is already taken.
func (dao *ProductDAO) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns products matching the filter, newest first, with the total
// count before pagination.
func (dao *ProductDAO) List(ctx context.Context, db *gorm.DB, filter ProductFilter) ([]model.Product, int64, error) {
	query := dao.applyFilter(db.WithContext(ctx).Model(&model.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []model.Product
	if err := query.
		Order("created_at DESC").
		Limit(filter.limit()).
		Offset(filter.offset()).
		Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

// Brands returns the distinct non-empty brand names of published products,
// sorted alphabetically.
func (dao *ProductDAO) Brands(ctx context.Context, db *gorm.DB) ([]string, error) {
	var brands []string
	if err := db.WithContext(ctx).
		Model(&model.Product{}).
		Where("published = ?", true).
		Where("brand IS NOT NULL AND brand <> ''").
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// PublishedCountByCategory returns how many published products sit directly
// in each category. Categories without published products are absent from
// the map.
func (dao *ProductDAO) PublishedCountByCategory(ctx context.Context, db *gorm.DB) (map[uint]int64, error) {
	var rows []struct {
		CategoryID *uint
		Total      int64
	}
	if err := db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category_id, COUNT(*) AS total").
		Where("published = ?", true).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		if row.CategoryID != nil {
			counts[*row.CategoryID] = row.Total
		}
	}
	return counts, nil
}

// UpdateImageCount writes the image counter as a single atomic column
// update. The counter is the source of truth for how many variant objects
// exist in the store, so partial-row writes are not acceptable here.
func (dao *ProductDAO) UpdateImageCount(ctx context.Context, db *gorm.DB, id uint, count uint) error {
	return db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("image_count", count).
		Error
}

// SetPublished flips the published flag.
func (dao *ProductDAO) SetPublished(ctx context.Context, db *gorm.DB, id uint, published bool) error {
	return db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("published", published).
		Error
}

// ClearCategory detaches all products from a category, leaving them
// uncategorized. Used when a category is removed.
func (dao *ProductDAO) ClearCategory(ctx context.Context, db *gorm.DB, categoryID uint) error {
	return db.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).
		Error
}

// Delete removes a product.
func (dao *ProductDAO) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (dao *ProductDAO) applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice != nil {
		query = query.Where("COALESCE(discounted_price, price) >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("COALESCE(discounted_price, price) <= ?", *filter.MaxPrice)
	}
	if filter.OnSale {
		query = query.Where("discounted_price IS NOT NULL AND discounted_price < price")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"name LIKE ? OR description LIKE ? OR brand LIKE ? OR sku LIKE ?",
			like, like, like, like,
		)
	}
	return query
}
