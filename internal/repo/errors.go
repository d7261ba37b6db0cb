package repo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bookstore-admin/internal/domain"
)

// translate 把唯一约束冲突转成领域错误，其它错误原样返回
func translate(err error) error {
	if err == nil {
		return nil
	}
	// 依赖 TranslateError，驱动把唯一约束冲突统一翻译为 ErrDuplicatedKey
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
	}
	return err
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	return nil
}

func notFound(entity string, id uint) error {
	return fmt.Errorf("%w: %s %d", domain.ErrNotFound, entity, id)
}
