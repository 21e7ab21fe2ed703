package iterator

import "github.com/opdss/dataexporter/contracts/iterator"

var _ iterator.Failer = (*anyIterator[any])(nil)

type anyIterator[T any] struct {
	it iterator.Iterator[T]
}

// Any 把任意类型的迭代器转成 Iterator[any]，供导出使用
func Any[T any](it iterator.Iterator[T]) iterator.Iterator[any] {
	if a, ok := any(it).(iterator.Iterator[any]); ok {
		return a
	}
	return &anyIterator[T]{it: it}
}

func (a *anyIterator[T]) Next() bool {
	return a.it.Next()
}

func (a *anyIterator[T]) Value() any {
	return a.it.Value()
}

func (a *anyIterator[T]) Err() error {
	if f, ok := a.it.(iterator.Failer); ok {
		return f.Err()
	}
	return nil
}
