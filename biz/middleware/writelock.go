package middleware

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/vega-tools/catalog/pkg/lock"
)

var globalWriteLock *lock.DistributedLock

// InitWriteLock sets the cross-replica write lock. When set, admin write
// endpoints serialize through it so two replicas cannot interleave slug
// allocation or image reindexing. Per-owner ordering within one process is
// handled separately by the media manager.
func InitWriteLock(l *lock.DistributedLock) {
	globalWriteLock = l
}

// WriteLockMw returns a middleware slice that acquires the write lock.
// If the lock is not initialized (Redis disabled), returns nil so requests
// pass through without any locking overhead.
func WriteLockMw() []app.HandlerFunc {
	if globalWriteLock == nil {
		return nil
	}
	return []app.HandlerFunc{writeLockHandler()}
}

func writeLockHandler() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		lockID, err := globalWriteLock.Acquire(ctx)
		if err != nil {
			hlog.CtxWarnf(ctx, "write lock not acquired: %v", err)
			c.JSON(http.StatusServiceUnavailable, map[string]any{
				"code": http.StatusServiceUnavailable,
				"msg":  "service busy, please retry later",
			})
			c.Abort()
			return
		}
		defer func() {
			if releaseErr := globalWriteLock.Release(ctx, lockID); releaseErr != nil {
				hlog.CtxErrorf(ctx, "write lock release failed: %v", releaseErr)
			}
		}()
		c.Next(ctx)
	}
}
