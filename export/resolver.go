package export

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Resolver 从一行数据中取出某一列的值
// @row 整个行数据
// @field 列字段名
// @index 列序号，按位置取值的数据使用
// 取不到时返回 false
type Resolver interface {
	Resolve(row any, field string, index int) (any, bool)
}

// ResolverFunc 函数形式的 Resolver
type ResolverFunc func(row any, field string, index int) (any, bool)

func (f ResolverFunc) Resolve(row any, field string, index int) (any, bool) {
	return f(row, field, index)
}

var (
	_ Resolver = MapResolver{}
	_ Resolver = StructResolver{}
	_ Resolver = SliceResolver{}
)

// DefaultResolver 根据行数据的类型选择取值方式
var DefaultResolver Resolver = ResolverFunc(func(row any, field string, index int) (any, bool) {
	return resolveValue(reflect.ValueOf(row), field, index)
})

// MapResolver 按字段名从map取值，整数key的map按列序号取值
type MapResolver struct{}

func (MapResolver) Resolve(row any, field string, index int) (any, bool) {
	rv := indirect(reflect.ValueOf(row))
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	return resolveFromMap(rv, field, index)
}

// StructResolver 按 export tag、字段名、Get<Field>() 或 <Field>() 方法取值
type StructResolver struct{}

func (StructResolver) Resolve(row any, field string, _ int) (any, bool) {
	rv := reflect.ValueOf(row)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return nil, false
		}
		return resolveFromStruct(rv.Elem(), rv, field)
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	return resolveFromStruct(rv, reflect.Value{}, field)
}

// SliceResolver 按列序号取值
type SliceResolver struct{}

func (SliceResolver) Resolve(row any, _ string, index int) (any, bool) {
	rv := indirect(reflect.ValueOf(row))
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	return resolveFromSlice(rv, index)
}

func resolveValue(rv reflect.Value, field string, index int) (any, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
		return resolveValue(rv.Elem(), field, index)
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, false
		}
		if rv.Elem().Kind() == reflect.Struct {
			return resolveFromStruct(rv.Elem(), rv, field)
		}
		return resolveValue(rv.Elem(), field, index)
	case reflect.Map:
		return resolveFromMap(rv, field, index)
	case reflect.Struct:
		return resolveFromStruct(rv, reflect.Value{}, field)
	case reflect.Slice, reflect.Array:
		return resolveFromSlice(rv, index)
	default:
		return nil, false
	}
}

func resolveFromMap(rv reflect.Value, field string, index int) (any, bool) {
	keyType := rv.Type().Key()
	var key reflect.Value
	switch keyType.Kind() {
	case reflect.String:
		key = reflect.ValueOf(field).Convert(keyType)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToInt64E(field)
		if err != nil {
			n = int64(index)
		}
		key = reflect.ValueOf(n)
		if !key.CanConvert(keyType) {
			return nil, false
		}
		key = key.Convert(keyType)
	case reflect.Interface:
		key = reflect.ValueOf(field)
	default:
		return nil, false
	}
	val := rv.MapIndex(key)
	if !val.IsValid() {
		return nil, false
	}
	return valueOf(val), true
}

func resolveFromStruct(rv reflect.Value, ptr reflect.Value, field string) (any, bool) {
	typ := rv.Type()
	names := candidateNames(field)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		//读取tag
		if k, ok := sf.Tag.Lookup(TagName); ok {
			if name, _, _ := strings.Cut(k, ","); name == field {
				return valueOf(rv.Field(i)), true
			}
			continue
		}
		for _, name := range names {
			if sf.Name == name {
				return valueOf(rv.Field(i)), true
			}
		}
	}
	//取不到字段再找getter
	if !ptr.IsValid() {
		ptr = reflect.New(typ)
		ptr.Elem().Set(rv)
	}
	for _, name := range names {
		if v, ok := callGetter(ptr, "Get"+name); ok {
			return v, true
		}
		if v, ok := callGetter(ptr, name); ok {
			return v, true
		}
	}
	return nil, false
}

func resolveFromSlice(rv reflect.Value, index int) (any, bool) {
	if index < 0 || index >= rv.Len() {
		return nil, false
	}
	return valueOf(rv.Index(index)), true
}

// callGetter 调用无参方法，支持返回 (v) 或 (v, error)
func callGetter(rv reflect.Value, name string) (any, bool) {
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, false
	}
	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() == 0 || mt.NumOut() > 2 {
		return nil, false
	}
	if mt.NumOut() == 2 && !mt.Out(1).Implements(errorType) {
		return nil, false
	}
	out := m.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, false
	}
	return valueOf(out[0]), true
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// valueOf 取出interface，nil指针当作nil
func valueOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// candidateNames name -> Name, created_at -> Created_at, CreatedAt
func candidateNames(field string) []string {
	first := ucfirst(field)
	names := []string{first}
	if strings.ContainsAny(field, "_-") {
		parts := strings.FieldsFunc(field, func(r rune) bool { return r == '_' || r == '-' })
		for i := range parts {
			parts[i] = ucfirst(parts[i])
		}
		if camel := strings.Join(parts, ""); camel != first {
			names = append(names, camel)
		}
	}
	return names
}

func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
