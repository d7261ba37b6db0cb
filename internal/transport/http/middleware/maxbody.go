package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "bookstore-admin/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；Content-Length 已超限的直接 413，
// 其余由 MaxBytesReader 在读的时候截断（ez 解码时转成 413）
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
