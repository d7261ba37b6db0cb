package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "bookstore-admin/internal/transport/http/response"
)

// Recovery panic 记录堆栈，客户端只拿到统一的 500
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
	})
}
