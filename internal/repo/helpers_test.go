package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookstore-admin/internal/core/database"
	"bookstore-admin/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }

func bookInput(i int, categoryID *uint) domain.BookInput {
	return domain.BookInput{
		Title:      fmt.Sprintf("Book %02d", i),
		Author:     fmt.Sprintf("Author %02d", i),
		ISBN:       fmt.Sprintf("978000000%04d", i),
		Price:      10,
		Quantity:   20,
		CategoryID: categoryID,
	}
}

func seedBooks(t *testing.T, r *BookRepo, n int, categoryID *uint) []*domain.Book {
	t.Helper()
	out := make([]*domain.Book, 0, n)
	for i := 1; i <= n; i++ {
		b, err := r.Create(context.Background(), bookInput(i, categoryID))
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}
