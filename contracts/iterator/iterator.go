package iterator

type Iterator[T any] interface {
	//Next 是否有下一条数据
	Next() bool
	//Value 获取下一条数据
	Value() T
}

// Failer 迭代过程中出错的迭代器会实现该接口
type Failer interface {
	Err() error
}
