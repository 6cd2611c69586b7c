package service

import (
	"context"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/biz/media"
)

// CategoryView is a category decorated with its breadcrumb and image URLs.
type CategoryView struct {
	model.Category
	FullPath string     `json:"full_path,omitempty"`
	Images   []ImageSet `json:"images"`
}

// --------------------- Category operations ---------------------

func (s *Service) CreateCategory(ctx context.Context, c *model.Category) (*CategoryView, error) {
	if err := s.logic.AddCategory(ctx, c); err != nil {
		return nil, err
	}
	view := s.decorateCategory(ctx, c)
	return &view, nil
}

func (s *Service) UpdateCategory(ctx context.Context, c *model.Category) (*CategoryView, error) {
	if err := s.logic.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	updated, err := s.logic.GetCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	view := s.decorateCategory(ctx, updated)
	return &view, nil
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryView, error) {
	c, err := s.logic.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	view := s.decorateCategory(ctx, c)
	return &view, nil
}

func (s *Service) CategoryTree(ctx context.Context, activeOnly bool) ([]CategoryNode, error) {
	return s.logic.CategoryTree(ctx, activeOnly)
}

func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	return s.logic.ListCategories(ctx, activeOnly)
}

// FeaturedCategories returns the homepage category tiles. Admins pin
// categories through the featured_categories setting; without a pin, root
// categories with published products fill in.
func (s *Service) FeaturedCategories(ctx context.Context, limit int) ([]CategoryView, error) {
	ids, err := s.settingIDList(ctx, SettingKeyFeaturedCategories)
	if err != nil {
		return nil, err
	}
	cats, err := s.logic.FeaturedCategories(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(cats))
	for i := range cats {
		views = append(views, s.decorateCategory(ctx, &cats[i]))
	}
	return views, nil
}

// CategoryProducts lists products under the category identified by slug,
// spanning the whole subtree when includeDescendants is set.
func (s *Service) CategoryProducts(ctx context.Context, slug string, includeDescendants bool, filter db.ProductFilter) ([]ProductView, int64, error) {
	c, err := s.logic.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, 0, err
	}
	products, total, err := s.logic.ProductsInCategory(ctx, c.ID, includeDescendants, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.decorateProducts(products), total, nil
}

func (s *Service) decorateCategory(ctx context.Context, c *model.Category) CategoryView {
	owner := media.Owner{ID: c.ID, Kind: OwnerKindCategory, StableName: c.Slug}
	images := make([]ImageSet, 0, c.ImageCount)
	for i := 0; i < int(c.ImageCount); i++ {
		images = append(images, s.imageSet(owner, i))
	}
	path, err := s.logic.FullPath(ctx, c.ID)
	if err != nil {
		path = c.Name
	}
	return CategoryView{Category: *c, FullPath: path, Images: images}
}
