package validator

import (
	"regexp"
	"strings"
)

// slugRegexp defines the valid format for slugs and setting keys:
// lowercase letters, numbers, underscores, and hyphens, 1-64 characters.
// Slugs are embedded verbatim in storage keys and URLs, so the format is
// deliberately strict.
var slugRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateSlug checks if the given value is a valid slug.
func ValidateSlug(slug string) bool {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return false
	}
	return slugRegexp.MatchString(trimmed)
}

// SanitizeSlug trims whitespace and validates the slug.
// Returns the sanitized slug and a boolean indicating if it's valid.
func SanitizeSlug(slug string) (string, bool) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return "", false
	}
	if !slugRegexp.MatchString(trimmed) {
		return trimmed, false
	}
	return trimmed, true
}
