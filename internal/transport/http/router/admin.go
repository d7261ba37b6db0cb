package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookstore-admin/internal/core/auth"
	"bookstore-admin/internal/domain"
	"bookstore-admin/internal/repo"
	"bookstore-admin/internal/service"
	httpez "bookstore-admin/internal/transport/http/ez"
	"bookstore-admin/internal/transport/http/handler"
	mdw "bookstore-admin/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1（统一要求 admin 角色）
func NewAdminEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, o Options) *gin.Engine {
	r := newEngine("admin", l, db, o)

	reg := NewRegistry(
		handler.NewAdminHandler(service.NewUserService(repo.NewUserRepo(db), l)),
	)

	admin := httpez.New(r.Group("/admin/v1", mdw.AuthJWT(jwter, domain.RoleAdmin)), l)
	reg.MountAllAdmin(admin)
	return r
}
