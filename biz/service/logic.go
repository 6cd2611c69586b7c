package service

import (
	"errors"

	"github.com/vega-tools/catalog/biz/dal/db"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSettingNotFound     = errors.New("setting not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrCategoryHasChildren = errors.New("category still has child categories")
	ErrSettingNotSystem    = errors.New("setting has no seeded default to reset to")
	ErrInvalidJSON         = errors.New("value is not valid JSON")
	ErrInvalidSlug         = errors.New("slug may only contain lowercase letters, digits, hyphen and underscore")
	ErrUnknownOwnerKind    = errors.New("unknown image owner kind")
)

// Logic contains business rules on top of data persistence.
type Logic struct {
	db            *gorm.DB
	productDAO    *db.ProductDAO
	categoryDAO   *db.CategoryDAO
	settingDAO    *db.SiteSettingDAO
	attachmentDAO *db.AttachmentDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:            dbConn,
		productDAO:    db.NewProductDAO(),
		categoryDAO:   db.NewCategoryDAO(),
		settingDAO:    db.NewSiteSettingDAO(),
		attachmentDAO: db.NewAttachmentDAO(),
	}
}
