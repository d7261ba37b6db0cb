package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/core/auth"
	resp "bookstore-admin/internal/transport/http/response"
)

// AuthJWT 校验 Bearer token 并把身份写入上下文；requireRole 为空表示任意角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		tok := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
		if !strings.HasPrefix(ah, "Bearer ") || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "Access token required"))
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(http.StatusForbidden, "Invalid or expired token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(http.StatusForbidden, "Insufficient permissions"))
			return
		}
		auth.SetIdentity(c, claims.Identity())
		c.Next()
	}
}

// RequireRole 在已鉴权的分组上再限定角色
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "Access token required"))
			return
		}
		if !slices.Contains(roles, id.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(http.StatusForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}
