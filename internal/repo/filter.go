package repo

import (
	"strings"

	"gorm.io/gorm"
)

type predicate struct {
	clause string
	args   []any
}

// Filter 累积 (clause, args) 对；同一个 Filter 同时作用于数据查询和计数查询，
// 保证两者的 WHERE 永远一致
type Filter struct {
	preds []predicate
}

func NewFilter() *Filter { return &Filter{} }

func (f *Filter) Where(clause string, args ...any) *Filter {
	f.preds = append(f.preds, predicate{clause: clause, args: args})
	return f
}

// Contains 多列大小写不敏感的子串匹配：(LOWER(a) LIKE ? OR LOWER(b) LIKE ?)
func (f *Filter) Contains(term string, cols ...string) *Filter {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return f
	}
	like := "%" + strings.ToLower(term) + "%"
	parts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, "LOWER("+c+") LIKE ?")
		args = append(args, like)
	}
	return f.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func (f *Filter) Empty() bool { return len(f.preds) == 0 }

// SQL 用 AND 拼接后的条件和参数（不含 WHERE 关键字）
func (f *Filter) SQL() (string, []any) {
	parts := make([]string, 0, len(f.preds))
	var args []any
	for _, p := range f.preds {
		parts = append(parts, p.clause)
		args = append(args, p.args...)
	}
	return strings.Join(parts, " AND "), args
}

// Scope 用法：db.Scopes(f.Scope)
func (f *Filter) Scope(q *gorm.DB) *gorm.DB {
	for _, p := range f.preds {
		q = q.Where(p.clause, p.args...)
	}
	return q
}
