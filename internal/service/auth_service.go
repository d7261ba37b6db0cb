package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookstore-admin/internal/core/auth"
	"bookstore-admin/internal/domain"
	"bookstore-admin/pkg/utils"
)

const MinPasswordLen = 6

// AuthResult 登录/注册返回给客户端的内容
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, j *auth.JWTer, l *zap.Logger) *AuthService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuthService{users: users, jwt: j, log: l}
}

// Login 邮箱不存在和密码错误返回同一个错误，不暴露账号是否存在
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.Password) {
		s.log.Warn("login rejected", zap.String("email", domain.NormalizeEmail(email)))
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(u)
}

// Register 公开注册一律是普通用户；管理员只能通过 CLI 或管理端创建
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	u, err := s.createUser(ctx, name, email, password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID))
	return s.issue(u)
}

// CreateAdmin cmd/admin create-admin 使用
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	u, err := s.createUser(ctx, name, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *AuthService) Profile(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return u, nil
}

// UpdateProfile 只改 name/email，角色保持不变
func (s *AuthService) UpdateProfile(ctx context.Context, id uint, name, email string) (*domain.User, error) {
	other, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, fmt.Errorf("%w: email is already taken", domain.ErrDuplicate)
	}
	u, err := s.users.Update(ctx, id, domain.UserUpdate{Name: name, Email: email})
	if err != nil {
		return nil, err
	}
	s.log.Info("profile updated", zap.Uint("user_id", id))
	return u, nil
}

// ResetPassword 按邮箱重置密码（cmd/admin reset-password）
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLen)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, domain.NormalizeEmail(email))
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.log.Info("password reset", zap.Uint("user_id", u.ID))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLen)
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user with this email already exists", domain.ErrDuplicate)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	// 并发注册时唯一索引兜底，仓储会转成 ErrDuplicate
	return s.users.Create(ctx, domain.UserInput{Name: name, Email: email, Password: hash, Role: role})
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.jwt.Issue(auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}
