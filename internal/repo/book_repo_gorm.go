package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"bookstore-admin/internal/domain"
)

const bookColumns = "books.*, categories.name AS category_name"

type BookRepo struct {
	db    *gorm.DB
	clock *clock
}

var _ domain.BookRepository = (*BookRepo)(nil)

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db, clock: newClock()} }

// withCategory books LEFT JOIN categories，带出 category_name
func (r *BookRepo) withCategory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Book{}).
		Select(bookColumns).
		Joins("LEFT JOIN categories ON categories.id = books.category_id")
}

func (r *BookRepo) Create(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	in, err := cleanBookInput(in)
	if err != nil {
		return nil, err
	}
	now := r.clock.Now()
	b := domain.Book{
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		Price:       in.Price,
		Quantity:    in.Quantity,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(&b).Error; err != nil {
		return nil, translate(err)
	}
	return r.refetch(ctx, b.ID)
}

func (r *BookRepo) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var b domain.Book
	err := r.withCategory(ctx).Where("books.id = ?", id).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func bookFilter(p domain.BookListParams) *Filter {
	f := NewFilter().Contains(p.Search, "books.title", "books.author", "books.isbn")
	if p.CategoryID != nil {
		f.Where("books.category_id = ?", *p.CategoryID)
	}
	return f
}

func (r *BookRepo) List(ctx context.Context, p domain.BookListParams) ([]domain.Book, domain.Pagination, error) {
	f := bookFilter(p)

	var total int64
	if err := r.countQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, domain.Pagination{}, err
	}
	pg := domain.NewPagination(p.Page, p.Limit, total)

	books := make([]domain.Book, 0, pg.Rows())
	if pg.Rows() == 0 {
		return books, pg, nil
	}
	if err := r.dataQuery(ctx, f).Limit(pg.Limit).Offset(pg.Offset()).Find(&books).Error; err != nil {
		return nil, domain.Pagination{}, err
	}
	return books, pg, nil
}

// dataQuery / countQuery 共用同一个 Filter；limit/offset 只加在数据查询上
func (r *BookRepo) dataQuery(ctx context.Context, f *Filter) *gorm.DB {
	return r.withCategory(ctx).Scopes(f.Scope).
		Order("books.created_at DESC").Order("books.id DESC")
}

func (r *BookRepo) countQuery(ctx context.Context, f *Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Book{}).Scopes(f.Scope)
}

func (r *BookRepo) Update(ctx context.Context, id uint, in domain.BookInput) (*domain.Book, error) {
	in, err := cleanBookInput(in)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).
		Updates(map[string]any{
			"title":       in.Title,
			"author":      in.Author,
			"isbn":        in.ISBN,
			"price":       in.Price,
			"quantity":    in.Quantity,
			"category_id": in.CategoryID,
			"description": in.Description,
			"image_url":   in.ImageURL,
			"updated_at":  r.clock.Now(),
		})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("book", id)
	}
	return r.refetch(ctx, id)
}

// UpdateStock 只动 quantity / updated_at
func (r *BookRepo) UpdateStock(ctx context.Context, id uint, quantity int) (*domain.Book, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}
	res := r.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "updated_at": r.clock.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("book", id)
	}
	return r.refetch(ctx, id)
}

func (r *BookRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("book", id)
	}
	return nil
}

func (r *BookRepo) LowStock(ctx context.Context, threshold int) ([]domain.Book, error) {
	books := []domain.Book{}
	err := r.withCategory(ctx).
		Where("books.quantity <= ?", threshold).
		Order("books.quantity ASC").Order("books.id ASC").
		Find(&books).Error
	return books, err
}

func (r *BookRepo) ByCategory(ctx context.Context, categoryID uint) ([]domain.Book, error) {
	books := []domain.Book{}
	err := r.withCategory(ctx).
		Where("books.category_id = ?", categoryID).
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// Stats 四个互不依赖的聚合并发执行
func (r *BookRepo) Stats(ctx context.Context, threshold int) (domain.Stats, error) {
	var s domain.Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Book{}).Count(&s.TotalBooks).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Category{}).Count(&s.TotalCategories).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Book{}).
			Where("quantity <= ?", threshold).
			Count(&s.LowStockBooks).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Book{}).
			Select("COALESCE(SUM(price * quantity), 0)").
			Row().Scan(&s.TotalValue)
	})

	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}
	return s, nil
}

func (r *BookRepo) refetch(ctx context.Context, id uint) (*domain.Book, error) {
	b, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("book", id)
	}
	return b, nil
}

func cleanBookInput(in domain.BookInput) (domain.BookInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Description = blankToNil(in.Description)
	in.ImageURL = blankToNil(in.ImageURL)
	err := errors.Join(required("title", in.Title), required("author", in.Author), required("isbn", in.ISBN))
	if err != nil {
		return in, err
	}
	if in.Price < 0 {
		return in, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return in, fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	}
	return in, nil
}
