package db

import (
	"context"
	"errors"

	"github.com/vega-tools/catalog/biz/dal/model"
	"gorm.io/gorm"
)

// AttachmentDAO wraps basic CRUD operations for uploaded file records.
type AttachmentDAO struct{}

func NewAttachmentDAO() *AttachmentDAO { return &AttachmentDAO{} }

// Create persists a new attachment record.
func (dao *AttachmentDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Attachment) error {
	if entity == nil {
		return errors.New("attachment must not be nil")
	}
	if entity.FileID == "" {
		return errors.New("file_id is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetByFileID fetches a single attachment by its file ID.
func (dao *AttachmentDAO) GetByFileID(ctx context.Context, db *gorm.DB, fileID string) (*model.Attachment, error) {
	var entity model.Attachment
	if err := db.WithContext(ctx).Where("file_id = ?", fileID).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByOwner returns the attachments belonging to an owner, newest first.
func (dao *AttachmentDAO) ListByOwner(ctx context.Context, db *gorm.DB, ownerType, ownerKey string) ([]model.Attachment, error) {
	var entities []model.Attachment
	if err := db.WithContext(ctx).
		Where("owner_type = ? AND owner_key = ?", ownerType, ownerKey).
		Order("created_at DESC").
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Delete removes an attachment record by file ID.
func (dao *AttachmentDAO) Delete(ctx context.Context, db *gorm.DB, fileID string) error {
	return db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&model.Attachment{}).Error
}
