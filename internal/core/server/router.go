package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "bookstore-admin/internal/transport/http/middleware"
	resp "bookstore-admin/internal/transport/http/response"
)

type Options struct {
	Name        string
	Mode        string   // gin.DebugMode / gin.ReleaseMode / gin.TestMode
	CORSOrigins []string // 为空表示允许任意来源
}

// NewRouter 公共底座：panic 恢复 + CORS + JSON 形式的 404/405
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.ContextWithFallback = true // handler 里可直接把 *gin.Context 当 ctx 传给 gorm
	r.HandleMethodNotAllowed = true

	r.Use(mdw.Recovery(l.Named(o.Name)))
	r.Use(corsMiddleware(o.CORSOrigins))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, "Route not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, resp.Error(http.StatusMethodNotAllowed, ""))
	})
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", mdw.KeyRequestID}
	cfg.ExposeHeaders = []string{mdw.KeyRequestID}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
