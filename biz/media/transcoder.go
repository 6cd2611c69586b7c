package media

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Transcoder decodes a source image and re-encodes it as WebP for a given
// variant. Images larger than the variant's bounding box are scaled down
// uniformly; smaller images are encoded at their native size. Aspect ratio
// is always preserved.
type Transcoder struct{}

func NewTranscoder() *Transcoder { return &Transcoder{} }

// Transcode produces the encoded bytes for spec from the raw source bytes.
// The source format is sniffed from content, not trusted from the caller.
func (t *Transcoder) Transcode(src []byte, spec VariantSpec) ([]byte, error) {
	img, err := t.decode(src)
	if err != nil {
		return nil, &TranscodeError{Variant: spec.Name, Op: "decode", Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() > spec.MaxWidth || bounds.Dy() > spec.MaxHeight {
		img = imaging.Fit(img, spec.MaxWidth, spec.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	opts := &webp.Options{Quality: float32(spec.Quality)}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, &TranscodeError{Variant: spec.Name, Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

func (t *Transcoder) decode(src []byte) (image.Image, error) {
	switch mimetype.Detect(src).String() {
	case "image/webp":
		return webp.Decode(bytes.NewReader(src))
	case "image/jpeg", "image/png", "image/gif", "image/bmp", "image/x-ms-bmp", "image/tiff":
		return imaging.Decode(bytes.NewReader(src))
	default:
		return nil, ErrUnsupportedFormat
	}
}
