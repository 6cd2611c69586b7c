package validator

import (
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Default upload constraints
const (
	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// DefaultAllowedMimeTypes contains the default whitelist of image MIME types
// accepted by the media pipeline. The transcoder decodes all of these.
var DefaultAllowedMimeTypes = map[string]bool{
	"image/jpeg":     true,
	"image/png":      true,
	"image/gif":      true,
	"image/webp":     true,
	"image/bmp":      true,
	"image/x-ms-bmp": true,
	"image/tiff":     true,
}

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrMissingType     = errors.New("missing content type")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// UploadConfig defines constraints for file uploads.
type UploadConfig struct {
	MaxFileSize      int64
	AllowedMimeTypes map[string]bool
}

// DefaultUploadConfig returns the default upload configuration.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:      DefaultMaxUploadSize,
		AllowedMimeTypes: DefaultAllowedMimeTypes,
	}
}

// NewUploadConfig builds an UploadConfig from a list of allowed types.
func NewUploadConfig(maxSize int64, allowedTypes []string) *UploadConfig {
	cfg := &UploadConfig{
		MaxFileSize:      maxSize,
		AllowedMimeTypes: make(map[string]bool, len(allowedTypes)),
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxUploadSize
	}
	if len(allowedTypes) == 0 {
		cfg.AllowedMimeTypes = DefaultAllowedMimeTypes
		return cfg
	}
	for _, t := range allowedTypes {
		cfg.AllowedMimeTypes[NormalizeMimeType(t)] = true
	}
	return cfg
}

// NormalizeMimeType lowercases a MIME type and strips parameters
// (e.g. "image/JPEG; charset=binary" -> "image/jpeg").
func NormalizeMimeType(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}

// IsImageType reports whether the declared content type is an image type.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(NormalizeMimeType(mimeType), "image/")
}

// ValidateFileSize checks if the file size is within the allowed limit.
func (c *UploadConfig) ValidateFileSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > c.MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ValidateMimeType checks if the MIME type is in the allowed whitelist.
func (c *UploadConfig) ValidateMimeType(mimeType string) error {
	normalized := NormalizeMimeType(mimeType)
	if normalized == "" {
		return ErrMissingType
	}
	if !c.AllowedMimeTypes[normalized] {
		return ErrUnsupportedType
	}
	return nil
}

// DetectAndValidateMimeType sniffs the MIME type from file content and
// validates it against the whitelist. The declared type is ignored for the
// decision; a mislabeled payload is judged by what it actually contains.
func (c *UploadConfig) DetectAndValidateMimeType(data []byte, _ string) (string, error) {
	detected := NormalizeMimeType(mimetype.Detect(data).String())

	if err := c.ValidateMimeType(detected); err != nil {
		return detected, err
	}

	return detected, nil
}

// Validate performs full validation on an upload.
func (c *UploadConfig) Validate(size int64, mimeType string, data []byte) error {
	if err := c.ValidateFileSize(size); err != nil {
		return err
	}
	if _, err := c.DetectAndValidateMimeType(data, mimeType); err != nil {
		return err
	}
	return nil
}
