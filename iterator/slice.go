package iterator

import "github.com/opdss/dataexporter/contracts/iterator"

var _ iterator.Iterator[any] = (*Slice[any])(nil)

// Slice 数组数据迭代器
type Slice[T any] struct {
	index int
	data  []T
}

func NewSlice[T any](data []T) *Slice[T] {
	return &Slice[T]{data: data}
}

func (s *Slice[T]) Next() bool {
	return s.index < len(s.data)
}

func (s *Slice[T]) Value() T {
	var v T
	if s.index < len(s.data) {
		v = s.data[s.index]
		s.index++
	}
	return v
}

// Len 数据总数
func (s *Slice[T]) Len() int {
	return len(s.data)
}
