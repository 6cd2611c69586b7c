package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gabriel-vasile/mimetype"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/service"
)

// CatalogHandler exposes the public storefront API.
type CatalogHandler struct {
	service *service.Service
}

func NewCatalogHandler(svc *service.Service) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

func (h *CatalogHandler) productFilter(c *app.RequestContext) db.ProductFilter {
	return db.ProductFilter{
		PublishedOnly: true,
		Brand:         c.Query("brand"),
		Search:        c.Query("q"),
		MinPrice:      queryFloat(c, "min_price"),
		MaxPrice:      queryFloat(c, "max_price"),
		OnSale:        queryBool(c, "on_sale"),
		Page:          queryInt(c, "page", 1),
		PerPage:       queryInt(c, "per_page", db.DefaultPerPage),
	}
}

// ListProducts returns published products matching the query filters.
func (h *CatalogHandler) ListProducts(ctx context.Context, c *app.RequestContext) {
	filter := h.productFilter(c)
	products, total, err := h.service.ListProducts(ctx, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeList(c, products, PageMeta{Page: filter.Page, PerPage: filter.PerPage, Total: total})
}

// GetProduct returns one published product by slug.
func (h *CatalogHandler) GetProduct(ctx context.Context, c *app.RequestContext) {
	view, err := h.service.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !view.Published {
		writeNotFound(c, service.ErrProductNotFound)
		return
	}
	writeOK(c, view)
}

// FeaturedProducts returns the homepage selection.
func (h *CatalogHandler) FeaturedProducts(ctx context.Context, c *app.RequestContext) {
	products, err := h.service.FeaturedProducts(ctx, queryInt(c, "limit", 8))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, products)
}

// OnSaleProducts returns discounted published products.
func (h *CatalogHandler) OnSaleProducts(ctx context.Context, c *app.RequestContext) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", db.DefaultPerPage)
	products, total, err := h.service.OnSaleProducts(ctx, page, perPage)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeList(c, products, PageMeta{Page: page, PerPage: perPage, Total: total})
}

// Brands returns the distinct brands of published products.
func (h *CatalogHandler) Brands(ctx context.Context, c *app.RequestContext) {
	brands, err := h.service.Brands(ctx)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, brands)
}

// FeaturedCategories returns the homepage category tiles.
func (h *CatalogHandler) FeaturedCategories(ctx context.Context, c *app.RequestContext) {
	categories, err := h.service.FeaturedCategories(ctx, queryInt(c, "limit", 6))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, categories)
}

// CategoryTree returns the active category hierarchy.
func (h *CatalogHandler) CategoryTree(ctx context.Context, c *app.RequestContext) {
	tree, err := h.service.CategoryTree(ctx, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, tree)
}

// GetCategory returns one category by slug with its breadcrumb.
func (h *CatalogHandler) GetCategory(ctx context.Context, c *app.RequestContext) {
	view, err := h.service.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, view)
}

// CategoryProducts lists published products under a category, spanning the
// subtree unless direct=true.
func (h *CatalogHandler) CategoryProducts(ctx context.Context, c *app.RequestContext) {
	filter := h.productFilter(c)
	includeDescendants := !queryBool(c, "direct")
	products, total, err := h.service.CategoryProducts(ctx, c.Param("slug"), includeDescendants, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeList(c, products, PageMeta{Page: filter.Page, PerPage: filter.PerPage, Total: total})
}

// PublicConfig returns the aggregated public site settings.
func (h *CatalogHandler) PublicConfig(ctx context.Context, c *app.RequestContext) {
	cfg, err := h.service.PublicConfig(ctx)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, cfg)
}

// Homepage returns the public settings together with the featured
// selections, so the landing page renders from one request.
func (h *CatalogHandler) Homepage(ctx context.Context, c *app.RequestContext) {
	payload, err := h.service.Homepage(ctx)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, payload)
}

// AppConfig returns the minimal configuration a client needs at startup.
func (h *CatalogHandler) AppConfig(ctx context.Context, c *app.RequestContext) {
	cfg, err := h.service.AppConfig(ctx)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, cfg)
}

// GetSetting returns one public setting by key. Private settings are
// indistinguishable from missing ones.
func (h *CatalogHandler) GetSetting(ctx context.Context, c *app.RequestContext) {
	setting, err := h.service.GetSetting(ctx, c.Param("key"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !setting.IsPublic {
		writeNotFound(c, service.ErrSettingNotFound)
		return
	}
	writeOK(c, map[string]any{"key": setting.Key, "value": json.RawMessage(setting.Value)})
}

// GetFile streams an object from local storage. URLs under /api/v1/files
// are only generated by the local backend; S3 serves objects directly.
func (h *CatalogHandler) GetFile(ctx context.Context, c *app.RequestContext) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		writeBadRequest(c, errors.New("file key required"))
		return
	}

	rc, err := h.service.Storage().GetObject(ctx, key)
	if err != nil {
		writeNotFound(c, fmt.Errorf("file not found: %s", key))
		return
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	c.Data(consts.StatusOK, mimetype.Detect(content).String(), content)
}
