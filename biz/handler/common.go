package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/vega-tools/catalog/biz/media"
	"github.com/vega-tools/catalog/biz/service"
	"github.com/vega-tools/catalog/pkg/common"
	"github.com/vega-tools/catalog/pkg/validator"
)

// PageMeta carries pagination info alongside list responses.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func writeOK(c *app.RequestContext, data any) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: data})
}

func writeList(c *app.RequestContext, data any, meta PageMeta) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: data, Meta: meta})
}

func writeBadRequest(c *app.RequestContext, err error) {
	c.JSON(consts.StatusBadRequest, common.CommonResponse{
		Code:  consts.StatusBadRequest,
		Msg:   err.Error(),
		Error: err.Error(),
	})
}

func writeNotFound(c *app.RequestContext, err error) {
	c.JSON(consts.StatusNotFound, common.CommonResponse{
		Code:  consts.StatusNotFound,
		Msg:   err.Error(),
		Error: err.Error(),
	})
}

func writeInternalError(c *app.RequestContext, err error) {
	c.JSON(consts.StatusInternalServerError, common.CommonResponse{
		Code:  consts.StatusInternalServerError,
		Msg:   "internal error",
		Error: err.Error(),
	})
}

// writeServiceError maps service and media errors onto HTTP statuses.
func writeServiceError(c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSettingNotFound),
		errors.Is(err, service.ErrAttachmentNotFound),
		errors.Is(err, media.ErrIndexOutOfRange):
		writeNotFound(c, err)
	case errors.Is(err, validator.ErrFileTooLarge):
		c.JSON(consts.StatusRequestEntityTooLarge, common.CommonResponse{
			Code:  consts.StatusRequestEntityTooLarge,
			Msg:   err.Error(),
			Error: err.Error(),
		})
	case errors.Is(err, media.ErrInvalidInput),
		errors.Is(err, media.ErrOwnerNotReady),
		errors.Is(err, service.ErrInvalidJSON),
		errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrCategoryHasChildren),
		errors.Is(err, service.ErrSettingNotSystem),
		errors.Is(err, service.ErrUnknownOwnerKind),
		errors.Is(err, validator.ErrEmptyFile),
		errors.Is(err, validator.ErrUnsupportedType),
		errors.Is(err, validator.ErrMissingType):
		writeBadRequest(c, err)
	default:
		writeInternalError(c, err)
	}
}

// enrichContext propagates the acting user from headers into the context.
func enrichContext(ctx context.Context, c *app.RequestContext) context.Context {
	if userHeader := c.GetHeader("X-User-Id"); len(userHeader) > 0 {
		if id, err := strconv.Atoi(string(userHeader)); err == nil && id > 0 {
			ctx = common.ContextWithUserID(ctx, id)
		}
	}
	return ctx
}

func queryInt(c *app.RequestContext, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryBool(c *app.RequestContext, key string) bool {
	switch c.Query(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func queryFloat(c *app.RequestContext, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Ping reports liveness.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]string{"message": "pong"})
}
