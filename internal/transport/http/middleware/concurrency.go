package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "bookstore-admin/internal/transport/http/response"
)

// ConcurrencyLimit 同时在处理的请求不超过 n，和 DB 连接池大小配合；
// 排队等待受请求 ctx（超时中间件）约束，等不到返回 503
func ConcurrencyLimit(n int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(n)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			if err := sem.Acquire(c.Request.Context(), 1); err != nil {
				c.Header("Retry-After", "1")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(http.StatusServiceUnavailable, ""))
				return
			}
		}
		defer sem.Release(1)
		c.Next()
	}
}
