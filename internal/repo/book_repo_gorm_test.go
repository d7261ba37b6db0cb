package repo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-admin/internal/domain"
)

func TestBookRepo_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cats := NewCategoryRepo(db)
	books := NewBookRepo(db)

	fiction, err := cats.Create(ctx, domain.CategoryInput{Name: "Fiction"})
	require.NoError(t, err)

	in := domain.BookInput{
		Title:       "  Dune ",
		Author:      "Frank Herbert",
		ISBN:        "9780441013593",
		Price:       12.5,
		Quantity:    3,
		CategoryID:  &fiction.ID,
		Description: strPtr("Desert planet"),
		ImageURL:    strPtr("  "),
	}
	created, err := books.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := books.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.Equal(t, "9780441013593", got.ISBN)
	assert.Equal(t, 12.5, got.Price)
	assert.Equal(t, 3, got.Quantity)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, fiction.ID, *got.CategoryID)
	require.NotNil(t, got.CategoryName)
	assert.Equal(t, "Fiction", *got.CategoryName)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Desert planet", *got.Description)
	assert.Nil(t, got.ImageURL)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestBookRepo_FindByID_Absent(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))

	got, err := books.FindByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookRepo_Create_Invalid(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	cases := map[string]domain.BookInput{
		"missing title":     {Author: "a", ISBN: "12345678"},
		"missing author":    {Title: "t", ISBN: "12345678"},
		"missing isbn":      {Title: "t", Author: "a"},
		"negative price":    {Title: "t", Author: "a", ISBN: "12345678", Price: -1},
		"negative quantity": {Title: "t", Author: "a", ISBN: "12345678", Quantity: -1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := books.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestBookRepo_Create_DuplicateISBN(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	_, err := books.Create(ctx, bookInput(1, nil))
	require.NoError(t, err)

	dup := bookInput(2, nil)
	dup.ISBN = bookInput(1, nil).ISBN
	_, err = books.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBookRepo_Update(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	created, err := books.Create(ctx, bookInput(1, nil))
	require.NoError(t, err)

	in := bookInput(1, nil)
	in.Title = "Renamed"
	in.Price = 7.25
	first, err := books.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", first.Title)
	assert.Equal(t, 7.25, first.Price)
	assert.True(t, first.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))

	second, err := books.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestBookRepo_Update_NotFound(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))

	_, err := books.Update(context.Background(), 42, bookInput(1, nil))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookRepo_UpdateStock(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	created, err := books.Create(ctx, bookInput(1, nil))
	require.NoError(t, err)

	got, err := books.UpdateStock(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Price, got.Price)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))

	_, err = books.UpdateStock(ctx, created.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = books.UpdateStock(ctx, 999, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookRepo_Delete(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	created, err := books.Create(ctx, bookInput(1, nil))
	require.NoError(t, err)

	require.NoError(t, books.Delete(ctx, created.ID))
	got, err := books.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, books.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestBookRepo_List_ThirdPage(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	seedBooks(t, books, 25, nil)

	rows, pg, err := books.List(context.Background(), domain.BookListParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, domain.Pagination{Page: 3, Limit: 10, Total: 25, TotalPages: 3}, pg)
}

func TestBookRepo_List_PageSizes(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	const total = 23
	seedBooks(t, books, total, nil)
	ctx := context.Background()

	for _, limit := range []int{1, 5, 10, 23, 50} {
		for page := 1; page <= 4; page++ {
			t.Run(fmt.Sprintf("limit=%d/page=%d", limit, page), func(t *testing.T) {
				rows, pg, err := books.List(ctx, domain.BookListParams{Page: page, Limit: limit})
				require.NoError(t, err)

				want := min(limit, max(0, total-(page-1)*limit))
				assert.Len(t, rows, want)
				assert.Equal(t, int64(total), pg.Total)
				assert.Equal(t, int64((total+limit-1)/limit), pg.TotalPages)
			})
		}
	}
}

func TestBookRepo_List_InvalidParamsUseDefaults(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	seedBooks(t, books, 12, nil)

	rows, pg, err := books.List(context.Background(), domain.BookListParams{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Len(t, rows, domain.DefaultLimit)
	assert.Equal(t, domain.DefaultPage, pg.Page)
	assert.Equal(t, domain.DefaultLimit, pg.Limit)
	assert.Equal(t, int64(2), pg.TotalPages)
}

func TestBookRepo_List_HugePageAndLimit(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	seedBooks(t, books, 3, nil)
	ctx := context.Background()

	rows, pg, err := books.List(ctx, domain.BookListParams{Page: math.MaxInt, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, domain.Pagination{Page: math.MaxInt, Limit: 10, Total: 3, TotalPages: 1}, pg)

	rows, pg, err = books.List(ctx, domain.BookListParams{Page: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, int64(1), pg.TotalPages)

	rows, _, err = books.List(ctx, domain.BookListParams{Page: math.MaxInt, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBookRepo_List_NewestFirst(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	seeded := seedBooks(t, books, 3, nil)

	rows, _, err := books.List(context.Background(), domain.BookListParams{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, seeded[2].ID, rows[0].ID)
	assert.Equal(t, seeded[0].ID, rows[2].ID)
}

func TestBookRepo_List_SearchAcrossPages(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		in := bookInput(i, nil)
		switch i % 3 {
		case 0:
			in.Title = fmt.Sprintf("Learning GOLANG %d", i)
		case 1:
			in.Author = fmt.Sprintf("Gopher %d", i)
		}
		_, err := books.Create(ctx, in)
		require.NoError(t, err)
	}

	var seen int
	var total int64
	for page := 1; ; page++ {
		rows, pg, err := books.List(ctx, domain.BookListParams{Page: page, Limit: 3, Search: "go"})
		require.NoError(t, err)
		total = pg.Total
		for _, b := range rows {
			hay := strings.ToLower(b.Title + " " + b.Author + " " + b.ISBN)
			assert.Contains(t, hay, "go")
		}
		seen += len(rows)
		if int64(page) >= pg.TotalPages {
			break
		}
	}
	assert.Equal(t, int64(8), total)
	assert.Equal(t, int(total), seen)
}

func TestBookRepo_List_ByCategory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cats := NewCategoryRepo(db)
	books := NewBookRepo(db)

	fiction, err := cats.Create(ctx, domain.CategoryInput{Name: "Fiction"})
	require.NoError(t, err)

	for i := 1; i <= 6; i++ {
		var cid *uint
		if i%2 == 0 {
			cid = &fiction.ID
		}
		_, err := books.Create(ctx, bookInput(i, cid))
		require.NoError(t, err)
	}

	rows, pg, err := books.List(ctx, domain.BookListParams{CategoryID: &fiction.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pg.Total)
	for _, b := range rows {
		require.NotNil(t, b.CategoryName)
		assert.Equal(t, "Fiction", *b.CategoryName)
	}

	byCat, err := books.ByCategory(ctx, fiction.ID)
	require.NoError(t, err)
	require.Len(t, byCat, 3)
	assert.Equal(t, []string{"Book 02", "Book 04", "Book 06"},
		[]string{byCat[0].Title, byCat[1].Title, byCat[2].Title})
}

func TestBookRepo_LowStock(t *testing.T) {
	books := NewBookRepo(setupTestDB(t))
	ctx := context.Background()

	for i, qty := range []int{3, 10, 11} {
		in := bookInput(i+1, nil)
		in.Quantity = qty
		_, err := books.Create(ctx, in)
		require.NoError(t, err)
	}

	low, err := books.LowStock(ctx, domain.DefaultLowStockThreshold)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, 3, low[0].Quantity)
	assert.Equal(t, 10, low[1].Quantity)

	stats, err := books.Stats(ctx, domain.DefaultLowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.LowStockBooks)
}

func TestBookRepo_Stats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	books := NewBookRepo(db)
	cats := NewCategoryRepo(db)

	t.Run("empty", func(t *testing.T) {
		s, err := books.Stats(ctx, domain.DefaultLowStockThreshold)
		require.NoError(t, err)
		assert.Equal(t, domain.Stats{}, s)
	})

	_, err := cats.Create(ctx, domain.CategoryInput{Name: "Fiction"})
	require.NoError(t, err)
	_, err = cats.Create(ctx, domain.CategoryInput{Name: "Non-Fiction"})
	require.NoError(t, err)

	a := bookInput(1, nil)
	a.Price, a.Quantity = 12.5, 2
	b := bookInput(2, nil)
	b.Price, b.Quantity = 4, 20
	for _, in := range []domain.BookInput{a, b} {
		_, err := books.Create(ctx, in)
		require.NoError(t, err)
	}

	s, err := books.Stats(ctx, domain.DefaultLowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.TotalBooks)
	assert.Equal(t, int64(2), s.TotalCategories)
	assert.Equal(t, int64(1), s.LowStockBooks)
	assert.InDelta(t, 105.0, s.TotalValue, 0.001)
}

func TestBookRepo_CategoryRemovedLeavesBookUncategorized(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cats := NewCategoryRepo(db)
	books := NewBookRepo(db)

	c, err := cats.Create(ctx, domain.CategoryInput{Name: "Poetry"})
	require.NoError(t, err)
	b, err := books.Create(ctx, bookInput(1, &c.ID))
	require.NoError(t, err)

	// 绕过仓储的删除保护，验证外键 ON DELETE SET NULL
	require.NoError(t, db.Exec("DELETE FROM categories WHERE id = ?", c.ID).Error)

	got, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.CategoryName)
}
