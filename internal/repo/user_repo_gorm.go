package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bookstore-admin/internal/domain"
)

type UserRepo struct {
	db    *gorm.DB
	clock *clock
}

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db, clock: newClock()} }

func (r *UserRepo) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if err := errors.Join(required("name", name), required("email", email), required("password", in.Password)); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	now := r.clock.Now()
	u := domain.User{
		Name:      name,
		Email:     email,
		Password:  in.Password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, translate(err)
	}
	return r.refetch(ctx, u.ID)
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, p domain.UserListParams) ([]domain.User, domain.Pagination, error) {
	f := NewFilter().Contains(p.Search, "name", "email")

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Scopes(f.Scope).Count(&total).Error; err != nil {
		return nil, domain.Pagination{}, err
	}
	pg := domain.NewPagination(p.Page, p.Limit, total)

	users := make([]domain.User, 0, pg.Rows())
	if pg.Rows() == 0 {
		return users, pg, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.User{}).Scopes(f.Scope).
		Order("created_at DESC").Order("id DESC").
		Limit(pg.Limit).Offset(pg.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return users, pg, nil
}

func (r *UserRepo) Update(ctx context.Context, id uint, in domain.UserUpdate) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if err := errors.Join(required("name", name), required("email", email)); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":       name,
		"email":      email,
		"updated_at": r.clock.Now(),
	}
	if in.Role != "" {
		if !domain.ValidRole(in.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
		}
		fields["role"] = in.Role
	}

	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("user", id)
	}
	return r.refetch(ctx, id)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	if err := required("password", hash); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"password": hash, "updated_at": r.clock.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user", id)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user", id)
	}
	return nil
}

func (r *UserRepo) refetch(ctx context.Context, id uint) (*domain.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", id)
	}
	return u, nil
}
