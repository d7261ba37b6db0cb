package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"bookstore-admin/internal/core/auth"
	"bookstore-admin/internal/repo"
	"bookstore-admin/internal/service"
	httpez "bookstore-admin/internal/transport/http/ez"
	"bookstore-admin/internal/transport/http/handler"
	mdw "bookstore-admin/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/auth、/api/books、/api/categories
func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, o Options) *gin.Engine {
	r := newEngine("api", l, db, o)

	users := repo.NewUserRepo(db)
	books := repo.NewBookRepo(db)
	cats := repo.NewCategoryRepo(db)

	// 登录/注册按 IP 单独限流
	var loginLimit gin.HandlerFunc
	if o.Limits.LoginRPS > 0 && o.Limits.LoginBurst > 0 {
		loginLimit = mdw.RateLimitPerIP(rate.Limit(o.Limits.LoginRPS), o.Limits.LoginBurst, 10*time.Minute)
	}

	reg := NewRegistry(
		handler.NewAuthHandler(service.NewAuthService(users, jwter, l), loginLimit),
		handler.NewBookHandler(books, cats, l),
		handler.NewCategoryHandler(cats, l),
	)

	// 前缀
	api := httpez.New(r.Group("/api"), l)
	// 鉴权分组（需要 Bearer token，任意角色）
	protected := api.Group("", mdw.AuthJWT(jwter, ""))

	reg.MountAllAPI(api, protected)
	return r
}
