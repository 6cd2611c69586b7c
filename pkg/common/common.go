package common

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// CommonResponse is a lightweight response wrapper used by HTTP handlers.
type CommonResponse struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
}

// Slugify converts a display name into a URL-safe slug: lowercase ASCII
// letters and digits with hyphen separators ("Drill X 500W" -> "drill-x-500w").
// Non-ASCII runes are dropped rather than transliterated.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type contextKey string

const (
	userIDKey contextKey = "user_id"
)

// ContextWithUserID stores user ID into context.
func ContextWithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// GetUserID retrieves the user ID from context.
func GetUserID(ctx context.Context) (int, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case string:
		id, err := strconv.Atoi(val)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
