package export

import (
	"reflect"
)

// Hook 单元格数据处理，在转义之前调用
type Hook func(value any) any

// Method 以 对象+方法名 的形式指定钩子
type Method struct {
	Handler any
	Name    string
}

// hookProbeValue 注册钩子时用于探测的测试值
const hookProbeValue = "test"

// newHook 把各种形式的 target 统一成 Hook
func newHook(target any) (Hook, error) {
	switch t := target.(type) {
	case nil:
		return nil, ErrHookNotCallable.New("hook is nil")
	case Hook:
		if t == nil {
			return nil, ErrHookNotCallable.New("hook is nil")
		}
		return t, nil
	case func(any) any:
		if t == nil {
			return nil, ErrHookNotCallable.New("hook is nil")
		}
		return t, nil
	case func(string) string:
		if t == nil {
			return nil, ErrHookNotCallable.New("hook is nil")
		}
		return func(v any) any { return t(toString(v)) }, nil
	case Method:
		return methodHook(t.Handler, t.Name)
	case *Method:
		if t == nil {
			return nil, ErrHookNotCallable.New("hook is nil")
		}
		return methodHook(t.Handler, t.Name)
	}
	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Func:
		return funcHook(rv)
	case reflect.Slice, reflect.Array:
		return nil, ErrInvalidHookArity.New("hook must be a [handler, method] pair, got %d parts", rv.Len())
	}
	return nil, ErrHookNotCallable.New("%T is not callable", target)
}

// pairParts 取出 [handler, method] 形式的钩子
func pairParts(target any) (handler any, name any, isPair bool, err error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() == reflect.Func {
		return nil, nil, false, nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, nil, false, nil
	}
	if rv.Len() != 2 {
		return nil, nil, true, ErrInvalidHookArity.New("hook must be a [handler, method] pair, got %d parts", rv.Len())
	}
	return valueOf(rv.Index(0)), valueOf(rv.Index(1)), true, nil
}

func methodHook(handler any, name string) (Hook, error) {
	rv := reflect.ValueOf(handler)
	if !rv.IsValid() {
		return nil, ErrHookNotCallable.New("hook handler is nil")
	}
	m := rv.MethodByName(name)
	if !m.IsValid() && rv.Kind() != reflect.Ptr && rv.Kind() != reflect.Interface {
		//值类型上取不到指针方法
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		m = ptr.MethodByName(name)
	}
	if !m.IsValid() {
		return nil, ErrHookNotCallable.New("%T has no method %s", handler, name)
	}
	return funcHook(m)
}

func funcHook(fn reflect.Value) (Hook, error) {
	if fn.IsNil() {
		return nil, ErrHookNotCallable.New("hook is nil")
	}
	ft := fn.Type()
	if ft.NumIn() != 1 || ft.IsVariadic() || ft.NumOut() != 1 {
		return nil, ErrHookNotCallable.New("hook must be a unary function, got %s", ft)
	}
	in := ft.In(0)
	return func(v any) any {
		return fn.Call([]reflect.Value{argOf(v, in)})[0].Interface()
	}, nil
}

// argOf 把单元格值转换成钩子参数类型，转换不了就给零值
func argOf(v any, typ reflect.Type) reflect.Value {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(typ)
	}
	if rv.Type().AssignableTo(typ) {
		if typ.Kind() == reflect.Interface {
			arg := reflect.New(typ).Elem()
			arg.Set(rv)
			return arg
		}
		return rv
	}
	if typ.Kind() == reflect.String {
		return reflect.ValueOf(toString(v)).Convert(typ)
	}
	if rv.CanConvert(typ) {
		return rv.Convert(typ)
	}
	return reflect.Zero(typ)
}

// probeHook 用测试值调用钩子，要求返回字符串
func probeHook(h Hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrHookReturnType.New("hook panicked on probe: %v", r)
		}
	}()
	if _, ok := h(hookProbeValue).(string); !ok {
		return ErrHookReturnType.New("hook must return a string")
	}
	return nil
}

// BuiltinHooks 常用的钩子，按名称引用
var BuiltinHooks = map[string]Hook{
	"upper": stringHook(upper),
	"lower": stringHook(lower),
	"trim":  stringHook(trim),
	"title": stringHook(title),
}

func stringHook(fn func(string) string) Hook {
	return func(v any) any {
		return fn(toString(v))
	}
}
