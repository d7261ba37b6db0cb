package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/domain"
	"bookstore-admin/internal/service"
	httpez "bookstore-admin/internal/transport/http/ez"
)

type AuthHandler struct {
	svc *service.AuthService
	// 登录/注册额外的限流（按 IP），可为空
	limit gin.HandlerFunc
}

func NewAuthHandler(svc *service.AuthService, limit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{svc: svc, limit: limit}
}

func (h *AuthHandler) Priority() int { return 10 }

type loginBody struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (b *loginBody) Normalize() { b.Email = domain.NormalizeEmail(b.Email) }

type registerBody struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (b *registerBody) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = domain.NormalizeEmail(b.Email)
}

type profileBody struct {
	Name  string `json:"name"  binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

func (b *profileBody) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = domain.NormalizeEmail(b.Email)
}

func (h *AuthHandler) MountAPI(public, protected httpez.EZ) {
	var mws []gin.HandlerFunc
	if h.limit != nil {
		mws = append(mws, h.limit)
	}
	pub := public.Group("/auth", mws...)
	priv := protected.Group("/auth")

	httpez.RegisterAction(pub, httpez.Action[loginBody, *service.AuthResult]{
		Method:  http.MethodPost,
		Path:    "/login",
		Binder:  httpez.BindJSON,
		Message: "Login successful",
		Handler: func(c *gin.Context, in *loginBody) (*service.AuthResult, error) {
			return h.svc.Login(c, in.Email, in.Password)
		},
	})

	httpez.RegisterAction(pub, httpez.Action[registerBody, *service.AuthResult]{
		Method:  http.MethodPost,
		Path:    "/register",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "User registered successfully",
		Errs:    httpez.Messages{domain.ErrDuplicate: "User with this email already exists"},
		Handler: func(c *gin.Context, in *registerBody) (*service.AuthResult, error) {
			return h.svc.Register(c, in.Name, in.Email, in.Password)
		},
	})

	httpez.RegisterAction(priv, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Auth:   true,
		Errs:   httpez.Messages{domain.ErrNotFound: "User not found"},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			u, err := h.svc.Profile(c, actor(c))
			if err != nil {
				return nil, err
			}
			return gin.H{"user": u}, nil
		},
	})

	httpez.RegisterAction(priv, httpez.Action[profileBody, gin.H]{
		Method:  http.MethodPut,
		Path:    "/profile",
		Binder:  httpez.BindJSON,
		Auth:    true,
		Message: "Profile updated successfully",
		Errs: httpez.Messages{
			domain.ErrNotFound:  "User not found",
			domain.ErrDuplicate: "Email is already taken",
		},
		Handler: func(c *gin.Context, in *profileBody) (gin.H, error) {
			u, err := h.svc.UpdateProfile(c, actor(c), in.Name, in.Email)
			if err != nil {
				return nil, err
			}
			return gin.H{"user": u}, nil
		},
	})
}
