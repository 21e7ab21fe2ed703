package export

import (
	"errors"

	"github.com/zeebo/errs"
)

var (
	// ErrUnsupportedFormat 不支持的导出格式
	ErrUnsupportedFormat = errs.Class("unsupported format")
	// ErrInvalidConfiguration 非法的配置组合
	ErrInvalidConfiguration = errs.Class("invalid configuration")
	// ErrNotConfigured 调用顺序不对：先配置，再设置列，再写数据
	ErrNotConfigured = errs.Class("not configured")
	// ErrFieldResolution 行数据中取不到列的值
	ErrFieldResolution = errs.Class("field resolution")
	// ErrInvalidRows 传入的数据不是数组
	ErrInvalidRows = errs.Class("invalid rows")

	ErrInvalidHookArity  = errs.Class("invalid hook arity")
	ErrUnknownHookColumn = errs.Class("unknown hook column")
	ErrHookNotCallable   = errs.Class("hook not callable")
	ErrHookReturnType    = errs.Class("hook return type")
)

var ErrMaximumLimit = errors.New("export quantity exceeds maximum limit")
