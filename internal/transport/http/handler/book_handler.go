package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"bookstore-admin/internal/domain"
	httpez "bookstore-admin/internal/transport/http/ez"
)

type BookHandler struct {
	books      domain.BookRepository
	categories domain.CategoryRepository
	log        *zap.Logger

	// 仪表盘轮询 /stats 时合并并发请求，只打一轮聚合查询
	statsSF singleflight.Group
}

func NewBookHandler(books domain.BookRepository, categories domain.CategoryRepository, l *zap.Logger) *BookHandler {
	return &BookHandler{books: books, categories: categories, log: l}
}

func (h *BookHandler) Priority() int { return 20 }

type bookBody struct {
	Title       string   `json:"title"       binding:"required,min=1,max=255"`
	Author      string   `json:"author"      binding:"required,min=1,max=255"`
	ISBN        string   `json:"isbn"        binding:"required,min=8,max=13"`
	Price       *float64 `json:"price"       binding:"required,gte=0"`
	Quantity    *int     `json:"quantity"    binding:"required,gte=0"`
	CategoryID  *uint    `json:"category_id" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
}

func (b *bookBody) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.ISBN = strings.TrimSpace(b.ISBN)
	trimPtr(b.Description)
	trimPtr(b.ImageURL)
}

func (b *bookBody) input() domain.BookInput {
	return domain.BookInput{
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       *b.Price,
		Quantity:    *b.Quantity,
		CategoryID:  b.CategoryID,
		Description: b.Description,
		ImageURL:    b.ImageURL,
	}
}

type bookListQuery struct {
	listQuery
	CategoryID string `form:"category_id"`
}

type stockBody struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

type thresholdQuery struct {
	Threshold string `form:"threshold"`
}

// value 缺省或非法时用默认阈值；0 合法
func (q thresholdQuery) value() int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Threshold))
	if err != nil || v < 0 {
		return domain.DefaultLowStockThreshold
	}
	return v
}

var bookErrs = httpez.Messages{
	domain.ErrNotFound:  "Book not found",
	domain.ErrDuplicate: "A book with this ISBN already exists",
}

func (h *BookHandler) MountAPI(_, protected httpez.EZ) {
	g := protected.Group("/books")

	httpez.RegisterAction(g, httpez.Action[bookListQuery, gin.H]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *bookListQuery) (gin.H, error) {
			books, pg, err := h.books.List(c, domain.BookListParams{
				Page:       in.page(),
				Limit:      in.limit(),
				Search:     in.search(),
				CategoryID: optionalID(in.CategoryID),
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"books": books, "pagination": pg}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, domain.Stats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Stats, error) {
			v, err, _ := h.statsSF.Do("stats", func() (any, error) {
				return h.books.Stats(context.WithoutCancel(c), domain.DefaultLowStockThreshold)
			})
			if err != nil {
				return domain.Stats{}, err
			}
			return v.(domain.Stats), nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[thresholdQuery, gin.H]{
		Method: http.MethodGet,
		Path:   "/low-stock",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *thresholdQuery) (gin.H, error) {
			threshold := in.value()
			books, err := h.books.LowStock(c, threshold)
			if err != nil {
				return nil, err
			}
			return gin.H{"books": books, "threshold": threshold}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/category/:categoryId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			cid, err := httpez.ParamID(c, "categoryId")
			if err != nil {
				return nil, err
			}
			books, err := h.books.ByCategory(c, cid)
			if err != nil {
				return nil, err
			}
			return gin.H{"books": books}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Errs:   bookErrs,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			b, err := found(h.books.FindByID(c, id))
			if err != nil {
				return nil, err
			}
			return gin.H{"book": b}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[bookBody, gin.H]{
		Method:  http.MethodPost,
		Path:    "",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "Book created successfully",
		Errs:    bookErrs,
		Handler: func(c *gin.Context, in *bookBody) (gin.H, error) {
			if err := h.checkCategory(c, in.CategoryID); err != nil {
				return nil, err
			}
			b, err := h.books.Create(c, in.input())
			if err != nil {
				return nil, err
			}
			h.log.Info("book created", zap.Uint("book_id", b.ID), zap.String("isbn", b.ISBN), zap.Uint("by", actor(c)))
			return gin.H{"book": b}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[bookBody, gin.H]{
		Method:  http.MethodPut,
		Path:    "/:id",
		Binder:  httpez.BindJSON,
		Message: "Book updated successfully",
		Errs:    bookErrs,
		Handler: func(c *gin.Context, in *bookBody) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.checkCategory(c, in.CategoryID); err != nil {
				return nil, err
			}
			b, err := h.books.Update(c, id, in.input())
			if err != nil {
				return nil, err
			}
			h.log.Info("book updated", zap.Uint("book_id", id), zap.Uint("by", actor(c)))
			return gin.H{"book": b}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[stockBody, gin.H]{
		Method:  http.MethodPatch,
		Path:    "/:id/stock",
		Binder:  httpez.BindJSON,
		Message: "Stock updated successfully",
		Errs:    bookErrs,
		Handler: func(c *gin.Context, in *stockBody) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			b, err := h.books.UpdateStock(c, id, *in.Quantity)
			if err != nil {
				return nil, err
			}
			h.log.Info("stock updated", zap.Uint("book_id", id), zap.Int("quantity", b.Quantity), zap.Uint("by", actor(c)))
			return gin.H{"book": b}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Message: "Book deleted successfully",
		Errs:    bookErrs,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			if err := h.books.Delete(c, id); err != nil {
				return struct{}{}, err
			}
			h.log.Info("book deleted", zap.Uint("book_id", id), zap.Uint("by", actor(c)))
			return struct{}{}, nil
		},
	})
}

// checkCategory category_id 指向不存在的分类时按 400 处理，而不是让外键报 500
func (h *BookHandler) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	cat, err := h.categories.FindByID(ctx, *id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidInput, *id)
	}
	return nil
}
