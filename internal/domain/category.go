package domain

import (
	"context"
	"time"
)

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"precision:6" json:"created_at"`
	UpdatedAt   time.Time `gorm:"precision:6" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

type CategoryInput struct {
	Name        string
	Description *string
}

type CategoryListParams struct {
	Page   int
	Limit  int
	Search string
}

// CategoryOption 下拉框用
type CategoryOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryWithCount struct {
	Category
	BookCount int64 `json:"book_count"`
}

type CategoryRepository interface {
	Create(ctx context.Context, in CategoryInput) (*Category, error)
	FindByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context, p CategoryListParams) ([]Category, Pagination, error)
	ListSimple(ctx context.Context) ([]CategoryOption, error)
	ListWithBookCount(ctx context.Context) ([]CategoryWithCount, error)
	Update(ctx context.Context, id uint, in CategoryInput) (*Category, error)
	Delete(ctx context.Context, id uint) error
}
