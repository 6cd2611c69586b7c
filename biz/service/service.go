package service

import (
	"gorm.io/gorm"

	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/biz/media"
	"github.com/vega-tools/catalog/pkg/storage"
	"github.com/vega-tools/catalog/pkg/validator"
)

// Service orchestrates catalog, settings and media operations using Logic.
type Service struct {
	logic     *Logic
	store     storage.Storage
	manager   *media.Manager
	processor *media.Processor
	uploads   *validator.UploadConfig
	counts    media.CountStore

	settingDefaults map[string]model.SiteSetting
}

func NewService(dbConn *gorm.DB, store storage.Storage, manager *media.Manager, processor *media.Processor, uploads *validator.UploadConfig) *Service {
	if uploads == nil {
		uploads = validator.DefaultUploadConfig()
	}
	return &Service{
		logic:           NewLogic(dbConn),
		store:           store,
		manager:         manager,
		processor:       processor,
		uploads:         uploads,
		counts:          NewCountStore(dbConn),
		settingDefaults: make(map[string]model.SiteSetting),
	}
}

// Storage exposes the object store for handlers that stream files directly.
func (s *Service) Storage() storage.Storage { return s.store }
