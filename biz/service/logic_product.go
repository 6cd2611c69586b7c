package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/pkg/common"
	"github.com/vega-tools/catalog/pkg/validator"
	"gorm.io/gorm"
)

// --------------------- Product Operations ---------------------

// AddProduct assigns a unique slug from the product name when none is given
// and persists the product. The slug never changes afterwards.
func (l *Logic) AddProduct(ctx context.Context, p *model.Product) error {
	if p == nil {
		return nil
	}
	if p.Slug == "" {
		slug, err := l.uniqueSlug(ctx, common.Slugify(p.Name), l.productDAO.SlugExists)
		if err != nil {
			return err
		}
		p.Slug = slug
	} else if !validator.ValidateSlug(p.Slug) {
		return ErrInvalidSlug
	}
	return l.productDAO.Create(ctx, l.db, p)
}

// UpdateProduct saves changed fields. The persistence layer refuses to
// rewrite the slug regardless of what the caller set on the struct.
func (l *Logic) UpdateProduct(ctx context.Context, p *model.Product) error {
	existing, err := l.productDAO.GetByID(ctx, l.db, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	p.Slug = existing.Slug
	return l.productDAO.Update(ctx, l.db, p)
}

func (l *Logic) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	p, err := l.productDAO.GetByID(ctx, l.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (l *Logic) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := l.productDAO.GetBySlug(ctx, l.db, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (l *Logic) ListProducts(ctx context.Context, filter db.ProductFilter) ([]model.Product, int64, error) {
	return l.productDAO.List(ctx, l.db, filter)
}

// FeaturedProducts returns up to limit published products for the homepage.
// Discounted products come first; when there are not enough of them, the
// newest published products fill the remaining slots.
func (l *Logic) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	onSale, _, err := l.productDAO.List(ctx, l.db, db.ProductFilter{
		PublishedOnly: true,
		OnSale:        true,
		PerPage:       limit,
	})
	if err != nil {
		return nil, err
	}
	if len(onSale) >= limit {
		return onSale[:limit], nil
	}

	newest, _, err := l.productDAO.List(ctx, l.db, db.ProductFilter{
		PublishedOnly: true,
		PerPage:       limit,
	})
	if err != nil {
		return nil, err
	}

	featured := onSale
	seen := make(map[uint]bool, len(onSale))
	for _, p := range onSale {
		seen[p.ID] = true
	}
	for _, p := range newest {
		if len(featured) >= limit {
			break
		}
		if !seen[p.ID] {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// ProductsByIDs returns the published products with the given ids, in the
// order the ids appear. Unknown and unpublished ids are skipped.
func (l *Logic) ProductsByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	products, _, err := l.productDAO.List(ctx, l.db, db.ProductFilter{
		PublishedOnly: true,
		IDs:           ids,
		PerPage:       len(ids),
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]model.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (l *Logic) OnSaleProducts(ctx context.Context, page, perPage int) ([]model.Product, int64, error) {
	return l.productDAO.List(ctx, l.db, db.ProductFilter{
		PublishedOnly: true,
		OnSale:        true,
		Page:          page,
		PerPage:       perPage,
	})
}

// Brands lists the distinct brands of published products.
func (l *Logic) Brands(ctx context.Context) ([]string, error) {
	return l.productDAO.Brands(ctx, l.db)
}

func (l *Logic) SetProductPublished(ctx context.Context, id uint, published bool) error {
	err := l.productDAO.SetPublished(ctx, l.db, id, published)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (l *Logic) DeleteProduct(ctx context.Context, id uint) error {
	err := l.productDAO.Delete(ctx, l.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

// uniqueSlug appends a numeric suffix until the candidate slug is free.
func (l *Logic) uniqueSlug(ctx context.Context, base string, exists func(context.Context, *gorm.DB, string) (bool, error)) (string, error) {
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, l.db, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
