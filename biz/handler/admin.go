package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/biz/service"
	"github.com/vega-tools/catalog/pkg/common"
)

// AdminHandler exposes the management API: catalog CRUD, site settings and
// the image pipeline endpoints.
type AdminHandler struct {
	service *service.Service
}

func NewAdminHandler(svc *service.Service) *AdminHandler {
	return &AdminHandler{service: svc}
}

// --------------------- Products ---------------------

// ListProducts returns all products, including unpublished ones.
func (h *AdminHandler) ListProducts(ctx context.Context, c *app.RequestContext) {
	filter := db.ProductFilter{
		Brand:   c.Query("brand"),
		Search:  c.Query("q"),
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", db.DefaultPerPage),
	}
	products, total, err := h.service.ListProducts(ctx, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeList(c, products, PageMeta{Page: filter.Page, PerPage: filter.PerPage, Total: total})
}

func (h *AdminHandler) CreateProduct(ctx context.Context, c *app.RequestContext) {
	var p model.Product
	if err := c.BindAndValidate(&p); err != nil {
		writeBadRequest(c, err)
		return
	}
	view, err := h.service.CreateProduct(ctx, &p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, view)
}

func (h *AdminHandler) UpdateProduct(ctx context.Context, c *app.RequestContext) {
	existing, err := h.service.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	p := existing.Product
	if err := c.BindAndValidate(&p); err != nil {
		writeBadRequest(c, err)
		return
	}
	p.ID = existing.ID

	view, err := h.service.UpdateProduct(ctx, &p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, view)
}

func (h *AdminHandler) DeleteProduct(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteProductWithImages(ctx, c.Param("slug")); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}

// SetProductPublished toggles storefront visibility.
func (h *AdminHandler) SetProductPublished(ctx context.Context, c *app.RequestContext) {
	var req struct {
		Published bool `json:"published"`
	}
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	view, err := h.service.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := h.service.SetProductPublished(ctx, view.ID, req.Published); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}

// --------------------- Categories ---------------------

func (h *AdminHandler) ListCategories(ctx context.Context, c *app.RequestContext) {
	tree, err := h.service.CategoryTree(ctx, false)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, tree)
}

func (h *AdminHandler) CreateCategory(ctx context.Context, c *app.RequestContext) {
	var cat model.Category
	if err := c.BindAndValidate(&cat); err != nil {
		writeBadRequest(c, err)
		return
	}
	view, err := h.service.CreateCategory(ctx, &cat)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, view)
}

func (h *AdminHandler) UpdateCategory(ctx context.Context, c *app.RequestContext) {
	existing, err := h.service.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	cat := existing.Category
	if err := c.BindAndValidate(&cat); err != nil {
		writeBadRequest(c, err)
		return
	}
	cat.ID = existing.ID

	view, err := h.service.UpdateCategory(ctx, &cat)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, view)
}

func (h *AdminHandler) DeleteCategory(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteCategoryWithImages(ctx, c.Param("slug")); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}

// --------------------- Site settings ---------------------

func (h *AdminHandler) ListSettings(ctx context.Context, c *app.RequestContext) {
	settings, err := h.service.ListSettings(ctx, false, c.Query("category"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, settings)
}

func (h *AdminHandler) CreateSetting(ctx context.Context, c *app.RequestContext) {
	var setting model.SiteSetting
	if err := c.BindAndValidate(&setting); err != nil {
		writeBadRequest(c, err)
		return
	}
	if err := h.service.CreateSetting(ctx, &setting); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, setting)
}

func (h *AdminHandler) UpdateSetting(ctx context.Context, c *app.RequestContext) {
	var req struct {
		Value string `json:"value"`
	}
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	var updatedBy *uint
	if id, ok := common.GetUserID(enrichContext(ctx, c)); ok {
		uid := uint(id)
		updatedBy = &uid
	}

	setting, err := h.service.UpdateSetting(ctx, c.Param("key"), req.Value, updatedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, setting)
}

// ResetSetting restores a seeded setting to its default value.
func (h *AdminHandler) ResetSetting(ctx context.Context, c *app.RequestContext) {
	if err := h.service.ResetSetting(ctx, c.Param("key")); err != nil {
		writeServiceError(c, err)
		return
	}
	setting, err := h.service.GetSetting(ctx, c.Param("key"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, setting)
}

func (h *AdminHandler) DeleteSetting(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteSetting(ctx, c.Param("key")); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}

// --------------------- Images ---------------------

func imageOwner(c *app.RequestContext) (kind, ref string) {
	return c.Param("kind"), c.Param("ref")
}

func readUpload(c *app.RequestContext) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	return readUploadHeader(fileHeader)
}

func readUploadHeader(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}

// ListImages returns every image slot of the owner with variant URLs.
func (h *AdminHandler) ListImages(ctx context.Context, c *app.RequestContext) {
	kind, ref := imageOwner(c)
	sets, err := h.service.ImageSets(ctx, kind, ref)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, sets)
}

// UploadImage appends new images for the owner. A "files" multipart field
// uploads several images in order; a single "file" field uploads one.
func (h *AdminHandler) UploadImage(ctx context.Context, c *app.RequestContext) {
	kind, ref := imageOwner(c)

	if form, err := c.MultipartForm(); err == nil && len(form.File["files"]) > 0 {
		headers := form.File["files"]
		files := make([][]byte, 0, len(headers))
		types := make([]string, 0, len(headers))
		for _, fh := range headers {
			data, contentType, err := readUploadHeader(fh)
			if err != nil {
				writeBadRequest(c, err)
				return
			}
			files = append(files, data)
			types = append(types, contentType)
		}
		sets, err := h.service.UploadImages(ctx, kind, ref, files, types)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		writeOK(c, map[string]any{"images": sets})
		return
	}

	data, contentType, err := readUpload(c)
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	index, set, err := h.service.UploadImage(ctx, kind, ref, data, contentType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, map[string]any{"index": index, "image": set})
}

// ReplaceImage overwrites the image at the given index.
func (h *AdminHandler) ReplaceImage(ctx context.Context, c *app.RequestContext) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeBadRequest(c, errors.New("index must be an integer"))
		return
	}
	data, contentType, err := readUpload(c)
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	kind, ref := imageOwner(c)
	set, err := h.service.ReplaceImage(ctx, kind, ref, index, data, contentType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, map[string]any{"index": index, "image": set})
}

// DeleteImage removes one image; images above it shift down.
func (h *AdminHandler) DeleteImage(ctx context.Context, c *app.RequestContext) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeBadRequest(c, errors.New("index must be an integer"))
		return
	}
	kind, ref := imageOwner(c)
	if err := h.service.DeleteImage(ctx, kind, ref, index); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}

// DeleteAllImages removes every image of the owner.
func (h *AdminHandler) DeleteAllImages(ctx context.Context, c *app.RequestContext) {
	kind, ref := imageOwner(c)
	if err := h.service.DeleteAllImages(ctx, kind, ref); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}

// ImageExists probes the object store for the image at the given index.
func (h *AdminHandler) ImageExists(ctx context.Context, c *app.RequestContext) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeBadRequest(c, errors.New("index must be an integer"))
		return
	}
	kind, ref := imageOwner(c)
	exists, err := h.service.ImageExists(ctx, kind, ref, index)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, map[string]bool{"exists": exists})
}

// --------------------- Attachments ---------------------

// UploadAttachment stores a raw file outside the indexed image sequence.
func (h *AdminHandler) UploadAttachment(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	att, err := h.service.UploadAttachment(ctx, service.FileUploadInput{
		OwnerType:   string(c.FormValue("owner_type")),
		OwnerKey:    string(c.FormValue("owner_key")),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, att)
}

func (h *AdminHandler) ListAttachments(ctx context.Context, c *app.RequestContext) {
	attachments, err := h.service.ListAttachments(ctx, c.Query("owner_type"), c.Query("owner_key"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, attachments)
}

func (h *AdminHandler) DeleteAttachment(ctx context.Context, c *app.RequestContext) {
	if err := h.service.DeleteAttachment(ctx, c.Param("fileID")); err != nil {
		writeServiceError(c, err)
		return
	}
	writeOK(c, nil)
}
