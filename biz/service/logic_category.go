package service

import (
	"context"
	"errors"
	"strings"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/pkg/common"
	"github.com/vega-tools/catalog/pkg/validator"
	"gorm.io/gorm"
)

// CategoryNode is a category with its resolved children, used to render the
// navigation tree in one response.
type CategoryNode struct {
	model.Category
	Children []CategoryNode `json:"children,omitempty"`
}

// --------------------- Category Operations ---------------------

func (l *Logic) AddCategory(ctx context.Context, c *model.Category) error {
	if c == nil {
		return nil
	}
	if c.ParentID != nil {
		if _, err := l.categoryDAO.GetByID(ctx, l.db, *c.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	if c.Slug == "" {
		slug, err := l.uniqueSlug(ctx, common.Slugify(c.Name), l.categoryDAO.SlugExists)
		if err != nil {
			return err
		}
		c.Slug = slug
	} else if !validator.ValidateSlug(c.Slug) {
		return ErrInvalidSlug
	}
	return l.categoryDAO.Create(ctx, l.db, c)
}

func (l *Logic) UpdateCategory(ctx context.Context, c *model.Category) error {
	existing, err := l.categoryDAO.GetByID(ctx, l.db, c.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	c.Slug = existing.Slug
	return l.categoryDAO.Update(ctx, l.db, c)
}

func (l *Logic) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	c, err := l.categoryDAO.GetByID(ctx, l.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

func (l *Logic) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	c, err := l.categoryDAO.GetBySlug(ctx, l.db, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

func (l *Logic) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	return l.categoryDAO.ListAll(ctx, l.db, activeOnly)
}

// CategoryTree assembles the whole category hierarchy from a single query.
// Children are already ordered by position within each parent.
func (l *Logic) CategoryTree(ctx context.Context, activeOnly bool) ([]CategoryNode, error) {
	all, err := l.categoryDAO.ListAll(ctx, l.db, activeOnly)
	if err != nil {
		return nil, err
	}

	byParent := make(map[uint][]model.Category)
	var roots []model.Category
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	var build func(c model.Category) CategoryNode
	build = func(c model.Category) CategoryNode {
		node := CategoryNode{Category: c}
		for _, child := range byParent[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]CategoryNode, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, build(r))
	}
	return tree, nil
}

// Ancestors returns the chain from the root down to the category's direct
// parent, in that order.
func (l *Logic) Ancestors(ctx context.Context, id uint) ([]model.Category, error) {
	var chain []model.Category
	current, err := l.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	for current.ParentID != nil {
		parent, err := l.GetCategory(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		chain = append([]model.Category{*parent}, chain...)
		current = parent
	}
	return chain, nil
}

// FullPath renders the category's breadcrumb, e.g. "Tools > Drills > Cordless".
func (l *Logic) FullPath(ctx context.Context, id uint) (string, error) {
	c, err := l.GetCategory(ctx, id)
	if err != nil {
		return "", err
	}
	ancestors, err := l.Ancestors(ctx, id)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		parts = append(parts, a.Name)
	}
	parts = append(parts, c.Name)
	return strings.Join(parts, " > "), nil
}

// DescendantIDs returns the ids of the whole subtree rooted at id,
// excluding id itself.
func (l *Logic) DescendantIDs(ctx context.Context, id uint) ([]uint, error) {
	all, err := l.categoryDAO.ListAll(ctx, l.db, false)
	if err != nil {
		return nil, err
	}
	byParent := make(map[uint][]uint)
	for _, c := range all {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c.ID)
		}
	}

	var ids []uint
	queue := []uint{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, child := range byParent[next] {
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}

// FeaturedCategories returns the active categories with the given ids, in
// the order the ids appear. Without pinned ids it falls back to root
// categories whose subtree holds at least one published product.
func (l *Logic) FeaturedCategories(ctx context.Context, ids []uint, limit int) ([]model.Category, error) {
	if limit <= 0 {
		limit = 6
	}
	if len(ids) > 0 {
		cats, err := l.categoryDAO.ListByIDs(ctx, l.db, ids, true)
		if err != nil {
			return nil, err
		}
		byID := make(map[uint]model.Category, len(cats))
		for _, c := range cats {
			byID[c.ID] = c
		}
		ordered := make([]model.Category, 0, len(cats))
		for _, id := range ids {
			if c, ok := byID[id]; ok {
				ordered = append(ordered, c)
			}
			if len(ordered) == limit {
				break
			}
		}
		return ordered, nil
	}

	counts, err := l.productDAO.PublishedCountByCategory(ctx, l.db)
	if err != nil {
		return nil, err
	}
	roots, err := l.categoryDAO.ListRoots(ctx, l.db, true)
	if err != nil {
		return nil, err
	}
	var featured []model.Category
	for _, root := range roots {
		if len(featured) == limit {
			break
		}
		total := counts[root.ID]
		descendants, err := l.DescendantIDs(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range descendants {
			total += counts[id]
		}
		if total > 0 {
			featured = append(featured, root)
		}
	}
	return featured, nil
}

// ProductsInCategory lists products in the category, optionally spanning
// the whole subtree beneath it.
func (l *Logic) ProductsInCategory(ctx context.Context, id uint, includeDescendants bool, filter db.ProductFilter) ([]model.Product, int64, error) {
	ids := []uint{id}
	if includeDescendants {
		descendants, err := l.DescendantIDs(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		ids = append(ids, descendants...)
	}
	filter.CategoryIDs = ids
	return l.productDAO.List(ctx, l.db, filter)
}

// DeleteCategory removes a leaf category. Products in it are detached, not
// deleted; categories with children must be emptied first.
func (l *Logic) DeleteCategory(ctx context.Context, id uint) error {
	children, err := l.categoryDAO.ListChildren(ctx, l.db, id, false)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return ErrCategoryHasChildren
	}
	if err := l.productDAO.ClearCategory(ctx, l.db, id); err != nil {
		return err
	}
	err = l.categoryDAO.Delete(ctx, l.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
