package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination 列表分页信息
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NormalizePage page/limit 非法时回落到默认值 1/10
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

// Offset (page-1)*limit，溢出时取 math.MaxInt
func (p Pagination) Offset() int {
	skip := p.Page - 1
	if skip <= 0 || p.Limit <= 0 {
		return 0
	}
	if skip > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return skip * p.Limit
}

// Rows 当前页应返回的行数：min(limit, max(0, total-(page-1)*limit))
func (p Pagination) Rows() int {
	if p.Limit <= 0 || int64(p.Page-1) >= p.TotalPages {
		return 0
	}
	// page <= totalPages，乘积必然小于 total，不会溢出
	remaining := p.Total - int64(p.Page-1)*int64(p.Limit)
	return int(min(int64(p.Limit), remaining))
}

// NewPagination 计算 totalPages = ceil(total/limit)
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = NormalizePage(page, limit)
	var pages int64
	if total > 0 {
		pages = (total-1)/int64(limit) + 1
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}
