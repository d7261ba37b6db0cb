package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-admin/internal/domain"
	httpez "bookstore-admin/internal/transport/http/ez"
)

type CategoryHandler struct {
	categories domain.CategoryRepository
	log        *zap.Logger
}

func NewCategoryHandler(categories domain.CategoryRepository, l *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: l}
}

func (h *CategoryHandler) Priority() int { return 30 }

type categoryBody struct {
	Name        string  `json:"name"        binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

func (b *categoryBody) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	trimPtr(b.Description)
}

func (b *categoryBody) input() domain.CategoryInput {
	return domain.CategoryInput{Name: b.Name, Description: b.Description}
}

var categoryErrs = httpez.Messages{
	domain.ErrNotFound:      "Category not found",
	domain.ErrHasDependents: "Cannot delete category with existing books",
}

func (h *CategoryHandler) MountAPI(_, protected httpez.EZ) {
	g := protected.Group("/categories")

	httpez.RegisterAction(g, httpez.Action[listQuery, gin.H]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQuery) (gin.H, error) {
			cats, pg, err := h.categories.List(c, domain.CategoryListParams{
				Page:   in.page(),
				Limit:  in.limit(),
				Search: in.search(),
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"categories": cats, "pagination": pg}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/simple",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			opts, err := h.categories.ListSimple(c)
			if err != nil {
				return nil, err
			}
			return gin.H{"categories": opts}, nil
		},
	})

	withCount := func(c *gin.Context, _ *struct{}) (gin.H, error) {
		cats, err := h.categories.ListWithBookCount(c)
		if err != nil {
			return nil, err
		}
		return gin.H{"categories": cats}, nil
	}
	// 两个路径都保留，前端历史上两种写法都用过
	for _, p := range []string{"/with-count", "/with-book-count"} {
		httpez.RegisterAction(g, httpez.Action[struct{}, gin.H]{
			Method:  http.MethodGet,
			Path:    p,
			Binder:  httpez.BindNone,
			Handler: withCount,
		})
	}

	httpez.RegisterAction(g, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Errs:   categoryErrs,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			cat, err := found(h.categories.FindByID(c, id))
			if err != nil {
				return nil, err
			}
			return gin.H{"category": cat}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[categoryBody, gin.H]{
		Method:  http.MethodPost,
		Path:    "",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Errs:    categoryErrs,
		Handler: func(c *gin.Context, in *categoryBody) (gin.H, error) {
			cat, err := h.categories.Create(c, in.input())
			if err != nil {
				return nil, err
			}
			h.log.Info("category created", zap.Uint("category_id", cat.ID), zap.Uint("by", actor(c)))
			return gin.H{"category": cat}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[categoryBody, gin.H]{
		Method:  http.MethodPut,
		Path:    "/:id",
		Binder:  httpez.BindJSON,
		Message: "Category updated successfully",
		Errs:    categoryErrs,
		Handler: func(c *gin.Context, in *categoryBody) (gin.H, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			cat, err := h.categories.Update(c, id, in.input())
			if err != nil {
				return nil, err
			}
			h.log.Info("category updated", zap.Uint("category_id", id), zap.Uint("by", actor(c)))
			return gin.H{"category": cat}, nil
		},
	})

	httpez.RegisterAction(g, httpez.Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Message: "Category deleted successfully",
		Errs:    categoryErrs,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			if err := h.categories.Delete(c, id); err != nil {
				return struct{}{}, err
			}
			h.log.Info("category deleted", zap.Uint("category_id", id), zap.Uint("by", actor(c)))
			return struct{}{}, nil
		},
	})
}
