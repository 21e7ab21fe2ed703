package iterator

import (
	"context"

	"gorm.io/gorm"
)

// GormOption gorm迭代器配置
type GormOption struct {
	// Find 使用 Find 查询，默认使用 Scan，查询 map 时应使用 Scan
	Find bool
	// Raw 原生sql，设置后忽略传入的查询条件
	Raw string
	// Args 原生sql参数
	Args []any
	// Order 分页排序，如 "id" 或 "created_at desc, id"
	// 不设置时由数据库决定行顺序，翻页期间可能重复或漏掉行
	Order string
}

// NewGorm 对 gorm 查询做 offset/limit 分页迭代，注意 T 不能是指针
func NewGorm[T any](ctx context.Context, tx *gorm.DB, opt GormOption, opts ...PagedOption[T]) *Paged[T] {
	if opt.Raw != "" {
		tx = tx.Raw(opt.Raw, opt.Args...)
	}
	return NewPaged(ctx, func(ctx context.Context, offset, limit int) ([]T, error) {
		res := make([]T, 0, limit)
		q := tx.WithContext(ctx)
		if opt.Raw != "" {
			//原生sql不能追加offset，包一层子查询
			q = tx.Session(&gorm.Session{NewDB: true}).WithContext(ctx).
				Table("(?) AS export_rows", tx)
		}
		if opt.Order != "" {
			q = q.Order(opt.Order)
		}
		q = q.Offset(offset).Limit(limit)
		var err error
		if opt.Find {
			err = q.Find(&res).Error
		} else {
			err = q.Scan(&res).Error
		}
		return res, err
	}, opts...)
}
