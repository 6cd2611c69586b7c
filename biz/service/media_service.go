package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vega-tools/catalog/biz/dal/db"
	"github.com/vega-tools/catalog/biz/media"
)

// Image owner kinds, used in routes and storage lock keys.
const (
	OwnerKindProduct  = "product"
	OwnerKindCategory = "category"
	OwnerKindSetting  = "setting"
)

// ImageSet is one image slot of an owner with the URL of every variant.
type ImageSet struct {
	Index int               `json:"index"`
	URLs  map[string]string `json:"urls"`
}

// countStore adapts the DAOs to the media pipeline's counter interface. The
// image_count column on each owner row is the authoritative count.
type countStore struct {
	db          *gorm.DB
	productDAO  *db.ProductDAO
	categoryDAO *db.CategoryDAO
	settingDAO  *db.SiteSettingDAO
}

// NewCountStore builds the media.CountStore backed by the owner tables.
func NewCountStore(dbConn *gorm.DB) media.CountStore {
	return &countStore{
		db:          dbConn,
		productDAO:  db.NewProductDAO(),
		categoryDAO: db.NewCategoryDAO(),
		settingDAO:  db.NewSiteSettingDAO(),
	}
}

func (c *countStore) ImageCount(ctx context.Context, owner media.Owner) (uint, error) {
	switch owner.Kind {
	case OwnerKindProduct:
		p, err := c.productDAO.GetByID(ctx, c.db, owner.ID)
		if err != nil {
			return 0, err
		}
		return p.ImageCount, nil
	case OwnerKindCategory:
		cat, err := c.categoryDAO.GetByID(ctx, c.db, owner.ID)
		if err != nil {
			return 0, err
		}
		return cat.ImageCount, nil
	case OwnerKindSetting:
		s, err := c.settingDAO.GetByKey(ctx, c.db, owner.StableName)
		if err != nil {
			return 0, err
		}
		return s.ImageCount, nil
	default:
		return 0, ErrUnknownOwnerKind
	}
}

func (c *countStore) SetImageCount(ctx context.Context, owner media.Owner, count uint) error {
	switch owner.Kind {
	case OwnerKindProduct:
		return c.productDAO.UpdateImageCount(ctx, c.db, owner.ID, count)
	case OwnerKindCategory:
		return c.categoryDAO.UpdateImageCount(ctx, c.db, owner.ID, count)
	case OwnerKindSetting:
		return c.settingDAO.UpdateImageCount(ctx, c.db, owner.ID, count)
	default:
		return ErrUnknownOwnerKind
	}
}

// ResolveOwner maps (kind, ref) to a media owner. Products and categories
// are referenced by slug, settings by key.
func (s *Service) ResolveOwner(ctx context.Context, kind, ref string) (media.Owner, error) {
	switch kind {
	case OwnerKindProduct:
		p, err := s.logic.GetProductBySlug(ctx, ref)
		if err != nil {
			return media.Owner{}, err
		}
		return media.Owner{ID: p.ID, Kind: kind, StableName: p.Slug}, nil
	case OwnerKindCategory:
		c, err := s.logic.GetCategoryBySlug(ctx, ref)
		if err != nil {
			return media.Owner{}, err
		}
		return media.Owner{ID: c.ID, Kind: kind, StableName: c.Slug}, nil
	case OwnerKindSetting:
		st, err := s.logic.GetSetting(ctx, ref)
		if err != nil {
			return media.Owner{}, err
		}
		return media.Owner{ID: st.ID, Kind: kind, StableName: st.Key}, nil
	default:
		return media.Owner{}, ErrUnknownOwnerKind
	}
}

// UploadImage appends an image for the owner and returns the index it was
// stored at together with its variant URLs.
func (s *Service) UploadImage(ctx context.Context, kind, ref string, data []byte, contentType string) (int, *ImageSet, error) {
	detected, err := s.validateUpload(data, contentType)
	if err != nil {
		return 0, nil, err
	}
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return 0, nil, err
	}
	index, err := s.manager.Upload(ctx, owner, data, detected)
	if err != nil {
		return 0, nil, err
	}
	set := s.imageSet(owner, index)
	return index, &set, nil
}

// UploadImages appends several images in request order. Every payload is
// validated before the first write; a store failure mid-batch leaves the
// earlier images uploaded and counted.
func (s *Service) UploadImages(ctx context.Context, kind, ref string, files [][]byte, contentTypes []string) ([]ImageSet, error) {
	if len(files) == 0 || len(files) != len(contentTypes) {
		return nil, media.ErrInvalidInput
	}
	detected := make([]string, len(files))
	for i, data := range files {
		ct, err := s.validateUpload(data, contentTypes[i])
		if err != nil {
			return nil, err
		}
		detected[i] = ct
	}
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	indices, err := s.manager.UploadMany(ctx, owner, files, detected)
	if err != nil {
		return nil, err
	}
	sets := make([]ImageSet, 0, len(indices))
	for _, index := range indices {
		sets = append(sets, s.imageSet(owner, index))
	}
	return sets, nil
}

// ReplaceImage overwrites the image at index with new content.
func (s *Service) ReplaceImage(ctx context.Context, kind, ref string, index int, data []byte, contentType string) (*ImageSet, error) {
	detected, err := s.validateUpload(data, contentType)
	if err != nil {
		return nil, err
	}
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	if err := s.manager.Replace(ctx, owner, index, data, detected); err != nil {
		return nil, err
	}
	set := s.imageSet(owner, index)
	return &set, nil
}

// DeleteImage removes the image at index; images above it shift down.
func (s *Service) DeleteImage(ctx context.Context, kind, ref string, index int) error {
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return err
	}
	return s.manager.Delete(ctx, owner, index)
}

// DeleteAllImages removes every image of the owner.
func (s *Service) DeleteAllImages(ctx context.Context, kind, ref string) error {
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return err
	}
	return s.manager.DeleteAll(ctx, owner)
}

// ImageExists probes the object store for the image at index.
func (s *Service) ImageExists(ctx context.Context, kind, ref string, index int) (bool, error) {
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return false, err
	}
	return s.manager.Exists(ctx, owner, index)
}

// ImageSets lists all image slots of the owner with their variant URLs,
// derived from the stored image count without touching the object store.
func (s *Service) ImageSets(ctx context.Context, kind, ref string) ([]ImageSet, error) {
	owner, err := s.ResolveOwner(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	count, err := s.counts.ImageCount(ctx, owner)
	if err != nil {
		return nil, err
	}
	sets := make([]ImageSet, 0, count)
	for i := 0; i < int(count); i++ {
		sets = append(sets, s.imageSet(owner, i))
	}
	return sets, nil
}

func (s *Service) imageSet(owner media.Owner, index int) ImageSet {
	urls := make(map[string]string, len(s.manager.Variants()))
	for _, v := range s.manager.Variants() {
		urls[v.Name] = s.manager.URL(owner, v.Name, index)
	}
	return ImageSet{Index: index, URLs: urls}
}

// DeleteProductWithImages removes the product's stored images before the
// row, so the deletion cannot orphan objects.
func (s *Service) DeleteProductWithImages(ctx context.Context, slug string) error {
	owner, err := s.ResolveOwner(ctx, OwnerKindProduct, slug)
	if err != nil {
		return err
	}
	if err := s.manager.DeleteAll(ctx, owner); err != nil {
		return err
	}
	return s.logic.DeleteProduct(ctx, owner.ID)
}

// DeleteCategoryWithImages removes a leaf category and its stored images.
func (s *Service) DeleteCategoryWithImages(ctx context.Context, slug string) error {
	owner, err := s.ResolveOwner(ctx, OwnerKindCategory, slug)
	if err != nil {
		return err
	}
	if err := s.manager.DeleteAll(ctx, owner); err != nil {
		return err
	}
	return s.logic.DeleteCategory(ctx, owner.ID)
}

// validateUpload enforces size and content constraints and returns the type
// sniffed from the payload. The manager receives the detected type, so a
// mislabeled but genuine image still uploads and a renamed non-image does
// not.
func (s *Service) validateUpload(data []byte, declaredType string) (string, error) {
	if err := s.uploads.ValidateFileSize(int64(len(data))); err != nil {
		return "", err
	}
	detected, err := s.uploads.DetectAndValidateMimeType(data, declaredType)
	if err != nil {
		return "", errors.Join(media.ErrInvalidInput, err)
	}
	return detected, nil
}
