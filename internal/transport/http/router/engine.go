package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"bookstore-admin/internal/core/config"
	"bookstore-admin/internal/core/database"
	"bookstore-admin/internal/core/server"
	mdw "bookstore-admin/internal/transport/http/middleware"
	resp "bookstore-admin/internal/transport/http/response"
)

type Options struct {
	Mode        string
	CORSOrigins []string
	Limits      config.Limits
}

// newEngine 两个进程共用的中间件链 + /health + /metrics
func newEngine(name string, l *zap.Logger, db *gorm.DB, o Options) *gin.Engine {
	r := server.NewRouter(l, server.Options{Name: name, Mode: o.Mode, CORSOrigins: o.CORSOrigins})

	r.Use(
		mdw.RequestID(),
		mdw.Metrics(name),
		mdw.AccessLog(l.Named(name)),
	)
	r.Use(limiters(o.Limits)...)

	r.GET("/health", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// limiters 值 <= 0 的项视为不限制
func limiters(lim config.Limits) []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if lim.RPS > 0 && lim.Burst > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.MaxConcurrent > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(lim.MaxConcurrent))
	}
	if lim.MaxBodyMB > 0 {
		hs = append(hs, mdw.MaxBodyBytes(lim.MaxBodyMB<<20))
	}
	if lim.RequestTimeoutSec > 0 {
		hs = append(hs, mdw.Timeout(time.Duration(lim.RequestTimeoutSec)*time.Second))
	}
	return hs
}

// health 进程存活 + DB 可连
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		data := gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339), "database": "up"}
		if err := database.Ping(ctx, db); err != nil {
			data["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, resp.Resp{Success: false, Message: "Database unavailable", Data: data})
			return
		}
		c.JSON(http.StatusOK, resp.OK("Server is running", data))
	}
}
