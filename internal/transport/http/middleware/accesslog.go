package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-admin/internal/core/auth"
)

// 查询串里需要打码的 key（小写比较）
var sensitiveKeys = map[string]struct{}{
	"password": {}, "pwd": {}, "token": {}, "authorization": {},
	"secret": {}, "client_secret": {}, "access_token": {},
}

// 探活 / 抓取指标太频繁，不记
var quietPaths = map[string]struct{}{"/health": {}, "/metrics": {}}

func maskQuery(q url.Values) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
			continue
		}
		out[k] = v
	}
	return out
}

// AccessLog 每个请求一行：5xx 记 Error，4xx 记 Warn，其余 Info
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if _, quiet := quietPaths[path]; quiet {
			return
		}
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Int("size", max(0, c.Writer.Size())),
		}
		if len(c.Request.URL.RawQuery) > 0 {
			fields = append(fields, zap.Any("query", maskQuery(c.Request.URL.Query())))
		}
		if id, ok := auth.FromContext(c); ok {
			fields = append(fields, zap.Uint("uid", id.ID), zap.String("role", id.Role))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			l.Error("HTTP", fields...)
		case status >= 400:
			l.Warn("HTTP", fields...)
		default:
			l.Info("HTTP", fields...)
		}
	}
}
