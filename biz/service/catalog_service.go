package service

import (
	"context"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/biz/media"
)

// ProductView is a product decorated with derived pricing and image URLs
// for API responses.
type ProductView struct {
	model.Product
	EffectivePrice     float64    `json:"effective_price"`
	OnSale             bool       `json:"on_sale"`
	DiscountPercentage int        `json:"discount_percentage,omitempty"`
	Images             []ImageSet `json:"images"`
}

// --------------------- Product operations ---------------------

func (s *Service) CreateProduct(ctx context.Context, p *model.Product) (*ProductView, error) {
	if err := s.logic.AddProduct(ctx, p); err != nil {
		return nil, err
	}
	view := s.decorateProduct(p)
	return &view, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *model.Product) (*ProductView, error) {
	if err := s.logic.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	updated, err := s.logic.GetProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	view := s.decorateProduct(updated)
	return &view, nil
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*ProductView, error) {
	p, err := s.logic.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	view := s.decorateProduct(p)
	return &view, nil
}

func (s *Service) ListProducts(ctx context.Context, filter db.ProductFilter) ([]ProductView, int64, error) {
	products, total, err := s.logic.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.decorateProducts(products), total, nil
}

// FeaturedProducts returns the homepage selection. Admins pin products
// through the featured_products setting; without a pin, discounted and
// newest published products fill the slots.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]ProductView, error) {
	ids, err := s.settingIDList(ctx, SettingKeyFeaturedProducts)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		products, err := s.logic.ProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(products) > limit {
			products = products[:limit]
		}
		return s.decorateProducts(products), nil
	}
	products, err := s.logic.FeaturedProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.decorateProducts(products), nil
}

func (s *Service) OnSaleProducts(ctx context.Context, page, perPage int) ([]ProductView, int64, error) {
	products, total, err := s.logic.OnSaleProducts(ctx, page, perPage)
	if err != nil {
		return nil, 0, err
	}
	return s.decorateProducts(products), total, nil
}

func (s *Service) Brands(ctx context.Context) ([]string, error) {
	return s.logic.Brands(ctx)
}

func (s *Service) SetProductPublished(ctx context.Context, id uint, published bool) error {
	return s.logic.SetProductPublished(ctx, id, published)
}

func (s *Service) decorateProduct(p *model.Product) ProductView {
	owner := media.Owner{ID: p.ID, Kind: OwnerKindProduct, StableName: p.Slug}
	images := make([]ImageSet, 0, p.ImageCount)
	for i := 0; i < int(p.ImageCount); i++ {
		images = append(images, s.imageSet(owner, i))
	}
	return ProductView{
		Product:            *p,
		EffectivePrice:     p.EffectivePrice(),
		OnSale:             p.OnSale(),
		DiscountPercentage: p.DiscountPercentage(),
		Images:             images,
	}
}

func (s *Service) decorateProducts(products []model.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, s.decorateProduct(&products[i]))
	}
	return views
}
