package repo

import (
	"context"

	"gorm.io/gorm"

	"bookstore-admin/internal/domain"
)

// Migrate 建表（已存在则只补列/索引），books.category_id → categories.id ON DELETE SET NULL
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.Category{}, &domain.Book{})
}
