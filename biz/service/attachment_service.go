package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/biz/media"
	"github.com/vega-tools/catalog/pkg/validator"
)

// FileUploadInput captures metadata and payload for attachment uploads.
type FileUploadInput struct {
	OwnerType   string
	OwnerKey    string
	FileName    string
	ContentType string
	Data        []byte
}

// UploadAttachment stores a raw file outside the indexed image sequence
// (logos, carousel sources) and records its metadata. Image attachments get
// WebP renditions pre-warmed in the background.
func (s *Service) UploadAttachment(ctx context.Context, in FileUploadInput) (*model.Attachment, error) {
	detected, err := s.validateUpload(in.Data, in.ContentType)
	if err != nil {
		return nil, err
	}

	fileID := uuid.NewString()
	name := sanitizeFileName(in.FileName)
	key := fmt.Sprintf("attachments/%s/%s", fileID, name)

	err = s.store.PutObject(ctx, key, bytes.NewReader(in.Data), detected, int64(len(in.Data)))
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	url, err := s.store.GenerateURL(ctx, key, name)
	if err != nil {
		return nil, fmt.Errorf("attachment url: %w", err)
	}

	att := &model.Attachment{
		FileID:      fileID,
		OwnerType:   in.OwnerType,
		OwnerKey:    in.OwnerKey,
		FileName:    name,
		ContentType: detected,
		FileSize:    int64(len(in.Data)),
		Path:        key,
		URL:         url,
	}
	if err := s.logic.attachmentDAO.Create(ctx, s.logic.db, att); err != nil {
		if derr := s.store.DeleteObject(ctx, key); derr != nil {
			hlog.Warnf("orphaned attachment object %s after failed insert: %v", key, derr)
		}
		return nil, err
	}

	if s.processor != nil && validator.IsImageType(detected) {
		s.processor.Enqueue(media.Job{Key: key, ContentType: detected})
	}
	return att, nil
}

// GetAttachment returns the attachment metadata and an open reader on its
// content. The caller must close the reader.
func (s *Service) GetAttachment(ctx context.Context, fileID string) (*model.Attachment, io.ReadCloser, error) {
	att, err := s.logic.attachmentDAO.GetByFileID(ctx, s.logic.db, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, err
	}
	rc, err := s.store.GetObject(ctx, att.Path)
	if err != nil {
		return nil, nil, err
	}
	return att, rc, nil
}

// ListAttachments returns the attachments recorded for an owner.
func (s *Service) ListAttachments(ctx context.Context, ownerType, ownerKey string) ([]model.Attachment, error) {
	return s.logic.attachmentDAO.ListByOwner(ctx, s.logic.db, ownerType, ownerKey)
}

// DeleteAttachment removes the stored object, its pre-warmed renditions and
// the metadata row.
func (s *Service) DeleteAttachment(ctx context.Context, fileID string) error {
	att, err := s.logic.attachmentDAO.GetByFileID(ctx, s.logic.db, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	if err := s.store.DeleteObject(ctx, att.Path); err != nil {
		return fmt.Errorf("delete attachment object: %w", err)
	}
	for _, v := range s.manager.Variants() {
		if err := s.store.DeleteObject(ctx, media.DerivedKey(att.Path, v.Name)); err != nil {
			return fmt.Errorf("delete attachment variant: %w", err)
		}
	}
	return s.logic.attachmentDAO.Delete(ctx, s.logic.db, fileID)
}

// sanitizeFileName keeps only the base name and replaces anything outside a
// conservative character set.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
