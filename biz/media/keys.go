package media

import (
	"fmt"
	"strings"
)

// KeyScheme builds deterministic object keys for owner images. The key for
// a given (owner, variant, index) is a pure function of its inputs:
//
//	{prefix}/{stable_name}/{variant}.webp        index 0
//	{prefix}/{stable_name}/{variant}_{index}.webp index > 0
//
// Index 0 deliberately carries no suffix so the first image keeps a clean
// canonical key.
type KeyScheme struct {
	Prefix  string
	BaseURL string
}

// NewKeyScheme trims any trailing slash from prefix and baseURL so joining
// stays predictable.
func NewKeyScheme(prefix, baseURL string) KeyScheme {
	return KeyScheme{
		Prefix:  strings.TrimSuffix(prefix, "/"),
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Key returns the object key for one variant of the image at index.
func (s KeyScheme) Key(stableName, variant string, index int) string {
	suffix := ""
	if index > 0 {
		suffix = fmt.Sprintf("_%d", index)
	}
	return fmt.Sprintf("%s/%s/%s%s.%s", s.Prefix, stableName, variant, suffix, Ext)
}

// URL returns the public URL for one variant of the image at index. It is
// derived from the key alone and does not consult the object store.
func (s KeyScheme) URL(stableName, variant string, index int) string {
	return s.BaseURL + "/" + s.Key(stableName, variant, index)
}
