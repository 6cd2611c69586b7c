package media

import "github.com/vega-tools/catalog/pkg/config"

// VariantSpec describes one derived rendition of a source image. Every
// variant is encoded as WebP; MaxWidth and MaxHeight bound the output size
// without ever upscaling the source.
type VariantSpec struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// ContentType is the MIME type of every encoded variant.
const ContentType = "image/webp"

// Ext is the file extension shared by all variant objects.
const Ext = "webp"

// VariantsFromConfig converts configured variant entries into specs,
// preserving order. The first entry is treated as the primary variant for
// existence probes.
func VariantsFromConfig(cfgs []config.VariantConfig) []VariantSpec {
	specs := make([]VariantSpec, 0, len(cfgs))
	for _, c := range cfgs {
		specs = append(specs, VariantSpec{
			Name:      c.Name,
			MaxWidth:  c.MaxWidth,
			MaxHeight: c.MaxHeight,
			Quality:   c.Quality,
		})
	}
	return specs
}
