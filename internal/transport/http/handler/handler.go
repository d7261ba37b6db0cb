package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/core/auth"
	"bookstore-admin/internal/domain"
	httpez "bookstore-admin/internal/transport/http/ez"
)

// listQuery 列表通用参数；page/limit 非法时回落默认值，不报 400
type listQuery struct {
	Page   string `form:"page"`
	Limit  string `form:"limit"`
	Search string `form:"search"`
}

func (q listQuery) page() int { return httpez.AtoiDefault(q.Page, domain.DefaultPage) }

func (q listQuery) limit() int { return httpez.AtoiDefault(q.Limit, domain.DefaultLimit) }

func (q listQuery) search() string { return strings.TrimSpace(q.Search) }

// found 仓储约定查不到返回 (nil, nil)，这里转成 ErrNotFound
func found[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// actor 当前登录用户 id
func actor(c *gin.Context) uint {
	id, _ := auth.FromContext(c)
	return id.ID
}

// optionalID 空串或非法值视为未传
func optionalID(s string) *uint {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, strconv.IntSize)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
