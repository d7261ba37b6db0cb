package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookstore-admin/internal/domain"
)

// UserService 管理端用户管理
type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, log: l}
}

func (s *UserService) List(ctx context.Context, p domain.UserListParams) ([]domain.User, domain.Pagination, error) {
	return s.users.List(ctx, p)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, actorID, id uint, in domain.UserUpdate) (*domain.User, error) {
	if actorID == id && in.Role != "" && in.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot remove your own admin role", domain.ErrInvalidInput)
	}
	u, err := s.users.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.Uint("user_id", id), zap.Uint("by", actorID))
	return u, nil
}

// Delete 管理员不能删除自己
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrInvalidInput)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Uint("by", actorID))
	return nil
}
