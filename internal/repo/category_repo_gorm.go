package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bookstore-admin/internal/domain"
)

type CategoryRepo struct {
	db    *gorm.DB
	clock *clock
}

var _ domain.CategoryRepository = (*CategoryRepo)(nil)

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db, clock: newClock()} }

func (r *CategoryRepo) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := required("name", name); err != nil {
		return nil, err
	}
	now := r.clock.Now()
	c := domain.Category{
		Name:        name,
		Description: blankToNil(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translate(err)
	}
	return r.refetch(ctx, c.ID)
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func categoryFilter(p domain.CategoryListParams) *Filter {
	return NewFilter().Contains(p.Search, "categories.name", "categories.description")
}

func (r *CategoryRepo) List(ctx context.Context, p domain.CategoryListParams) ([]domain.Category, domain.Pagination, error) {
	f := categoryFilter(p)

	var total int64
	if err := r.countQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, domain.Pagination{}, err
	}
	pg := domain.NewPagination(p.Page, p.Limit, total)

	cats := make([]domain.Category, 0, pg.Rows())
	if pg.Rows() == 0 {
		return cats, pg, nil
	}
	if err := r.dataQuery(ctx, f).Limit(pg.Limit).Offset(pg.Offset()).Find(&cats).Error; err != nil {
		return nil, domain.Pagination{}, err
	}
	return cats, pg, nil
}

func (r *CategoryRepo) dataQuery(ctx context.Context, f *Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Category{}).Scopes(f.Scope).
		Order("categories.created_at DESC").Order("categories.id DESC")
}

func (r *CategoryRepo) countQuery(ctx context.Context, f *Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Category{}).Scopes(f.Scope)
}

func (r *CategoryRepo) ListSimple(ctx context.Context) ([]domain.CategoryOption, error) {
	opts := []domain.CategoryOption{}
	err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Select("id", "name").Order("name ASC").
		Scan(&opts).Error
	return opts, err
}

func (r *CategoryRepo) ListWithBookCount(ctx context.Context) ([]domain.CategoryWithCount, error) {
	rows := []domain.CategoryWithCount{}
	err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Select("categories.id, categories.name, categories.description, categories.created_at, categories.updated_at, COUNT(books.id) AS book_count").
		Joins("LEFT JOIN books ON books.category_id = categories.id").
		Group("categories.id, categories.name, categories.description, categories.created_at, categories.updated_at").
		Order("categories.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CategoryRepo) Update(ctx context.Context, id uint, in domain.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := required("name", name); err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).
		Updates(map[string]any{
			"name":        name,
			"description": blankToNil(in.Description),
			"updated_at":  r.clock.Now(),
		})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("category", id)
	}
	return r.refetch(ctx, id)
}

// Delete 有书引用时拒绝删除（外键是 SET NULL，不会替我们拦）
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Book{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category %d is referenced by %d book(s)", domain.ErrHasDependents, id, n)
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("category", id)
	}
	return nil
}

func (r *CategoryRepo) refetch(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", id)
	}
	return c, nil
}

// blankToNil 可选文本字段：空串按 NULL 存
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
