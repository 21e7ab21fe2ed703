package iterator

import (
	"context"
	"time"

	"github.com/opdss/dataexporter/contracts/iterator"
)

var _ iterator.Iterator[any] = (*Paged[any])(nil)

// PagedFn 分页查询，返回空数组表示没有更多数据
type PagedFn[T any] func(ctx context.Context, offset, limit int) ([]T, error)

type PagedOption[T any] func(p *Paged[T])

// WithPagedLimit 数据批量查询数量
func WithPagedLimit[T any](n int) PagedOption[T] {
	return func(p *Paged[T]) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithPagedQueryTimeout 单次查询超时控制
func WithPagedQueryTimeout[T any](t time.Duration) PagedOption[T] {
	return func(p *Paged[T]) {
		if t > 0 {
			p.queryTimeout = t
		}
	}
}

// Paged 分页查询数据迭代器，查询出错后停止迭代，通过 Err 获取错误
type Paged[T any] struct {
	ctx          context.Context
	offset       int
	limit        int
	hasMore      bool
	queryTimeout time.Duration
	page         *Slice[T]
	queryFn      PagedFn[T]
	err          error
}

func NewPaged[T any](ctx context.Context, queryFn PagedFn[T], opts ...PagedOption[T]) *Paged[T] {
	p := &Paged[T]{
		ctx:          ctx,
		limit:        2000,
		hasMore:      true,
		queryTimeout: time.Second * 30,
		page:         NewSlice[T](nil),
		queryFn:      queryFn,
	}
	for i := range opts {
		opts[i](p)
	}
	return p
}

func (p *Paged[T]) Next() bool {
	if p.page.Next() {
		return true
	}
	if !p.hasMore {
		return false
	}
	ctx, cancel := context.WithTimeout(p.ctx, p.queryTimeout)
	defer cancel()
	list, err := p.queryFn(ctx, p.offset, p.limit)
	if err != nil {
		p.err = err
		p.hasMore = false
		return false
	}
	//不满一页说明已经是最后一页
	if len(list) < p.limit {
		p.hasMore = false
	}
	p.offset += len(list)
	p.page = NewSlice(list)
	return p.page.Next()
}

func (p *Paged[T]) Value() T {
	return p.page.Value()
}

func (p *Paged[T]) Err() error {
	return p.err
}
