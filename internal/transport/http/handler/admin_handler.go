package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/domain"
	"bookstore-admin/internal/service"
	httpez "bookstore-admin/internal/transport/http/ez"
)

// AdminHandler 管理端用户管理（/admin/v1/users）
type AdminHandler struct {
	svc *service.UserService
}

func NewAdminHandler(svc *service.UserService) *AdminHandler { return &AdminHandler{svc: svc} }

type userUpdateBody struct {
	Name  string `json:"name"  binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"  binding:"omitempty,oneof=admin user"`
}

func (b *userUpdateBody) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = domain.NormalizeEmail(b.Email)
	b.Role = strings.TrimSpace(b.Role)
}

var userErrs = httpez.Messages{
	domain.ErrNotFound:  "User not found",
	domain.ErrDuplicate: "Email is already taken",
}

func (h *AdminHandler) MountAdmin(admin httpez.EZ) {
	g := admin.Group("/users")

	// --- GET /admin/v1/users  用户列表 ---
	httpez.RegisterAction(g, httpez.Action[listQuery, gin.H]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *listQuery) (gin.H, error) {
			users, pg, err := h.svc.List(c, domain.UserListParams{
				Page:   in.page(),
				Limit:  in.limit(),
				Search: in.search(),
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"users": users, "pagination": pg}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Roles:  []string{domain.RoleAdmin},
		Errs:   userErrs,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			u, err := h.svc.Get(c, id)
			if err != nil {
				return nil, err
			}
			return gin.H{"user": u}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[userUpdateBody, gin.H]{
		Method:  http.MethodPut,
		Path:    "/:id",
		Binder:  httpez.BindJSON,
		Roles:   []string{domain.RoleAdmin},
		Message: "User updated successfully",
		Errs:    userErrs,
		Handler: func(c *gin.Context, in *userUpdateBody) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			u, err := h.svc.Update(c, actor(c), id, domain.UserUpdate{Name: in.Name, Email: in.Email, Role: in.Role})
			if err != nil {
				return nil, err
			}
			return gin.H{"user": u}, nil
		},
	})

	// --- DELETE /admin/v1/users/:id  不能删自己 ---
	httpez.RegisterAction(g, httpez.Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Roles:   []string{domain.RoleAdmin},
		Message: "User deleted successfully",
		Errs:    userErrs,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Delete(c, actor(c), id)
		},
	})
}
