package domain

import (
	"context"
	"time"
)

// DefaultLowStockThreshold 低库存阈值（含）
const DefaultLowStockThreshold = 10

type Book struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Author      string    `gorm:"size:255;not null" json:"author"`
	ISBN        string    `gorm:"column:isbn;uniqueIndex;size:50;not null" json:"isbn"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"column:image_url;type:text" json:"image_url"`
	CreatedAt   time.Time `gorm:"precision:6" json:"created_at"`
	UpdatedAt   time.Time `gorm:"precision:6" json:"updated_at"`

	// 只读：LEFT JOIN categories 得到
	CategoryName *string `gorm:"->;-:migration" json:"category_name"`

	// 仅用于建表时生成外键
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Book) TableName() string { return "books" }

type BookInput struct {
	Title       string
	Author      string
	ISBN        string
	Price       float64
	Quantity    int
	CategoryID  *uint
	Description *string
	ImageURL    *string
}

type BookListParams struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *uint
}

type Stats struct {
	TotalBooks      int64   `json:"totalBooks"`
	TotalCategories int64   `json:"totalCategories"`
	LowStockBooks   int64   `json:"lowStockBooks"`
	TotalValue      float64 `json:"totalValue"`
}

type BookRepository interface {
	Create(ctx context.Context, in BookInput) (*Book, error)
	FindByID(ctx context.Context, id uint) (*Book, error)
	List(ctx context.Context, p BookListParams) ([]Book, Pagination, error)
	Update(ctx context.Context, id uint, in BookInput) (*Book, error)
	UpdateStock(ctx context.Context, id uint, quantity int) (*Book, error)
	Delete(ctx context.Context, id uint) error
	LowStock(ctx context.Context, threshold int) ([]Book, error)
	ByCategory(ctx context.Context, categoryID uint) ([]Book, error)
	Stats(ctx context.Context, threshold int) (Stats, error)
}
