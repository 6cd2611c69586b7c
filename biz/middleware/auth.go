package middleware

import (
	"context"
	"crypto/subtle"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/vega-tools/catalog/pkg/common"
)

// Auth returns a middleware that extracts user information from request
// headers and adds it to the context. It does not enforce anything, it only
// enriches the context so services can record who changed a setting.
func Auth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if userHeader := c.GetHeader("X-User-Id"); len(userHeader) > 0 {
			if id, err := strconv.Atoi(string(userHeader)); err == nil && id > 0 {
				ctx = common.ContextWithUserID(ctx, id)
			}
		}
		c.Next(ctx)
	}
}

// RequireAdminToken returns a middleware that guards the admin API with a
// shared bearer token. An empty configured token disables the guard, which
// is only sensible for local development.
func RequireAdminToken(token string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if token == "" {
			c.Next(ctx)
			return
		}
		header := string(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix ||
			subtle.ConstantTimeCompare([]byte(header[len(prefix):]), []byte(token)) != 1 {
			c.JSON(401, map[string]any{
				"code":  401,
				"error": "authentication required",
				"msg":   "missing or invalid admin token",
			})
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}
