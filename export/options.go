package export

import (
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// EscapePolicy 单元格内出现分隔符时的处理方式
type EscapePolicy int

const (
	// EscapePrefix 在分隔符前加转义符，可还原
	EscapePrefix EscapePolicy = iota
	// EscapeReplace 用转义符替换分隔符，会丢失原字符
	//
	// Deprecated: 仅为兼容旧的导出结果保留，请使用 EscapePrefix
	EscapeReplace
)

// ParseEscapePolicy 解析 prefix|replace
func ParseEscapePolicy(s string) (EscapePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prefix":
		return EscapePrefix, nil
	case "replace":
		return EscapeReplace, nil
	}
	return EscapePrefix, ErrInvalidConfiguration.New("unknown escape policy %q", s)
}

func (p EscapePolicy) String() string {
	if p == EscapeReplace {
		return "replace"
	}
	return "prefix"
}

// 配置项名称，ConfigFromMap 使用
const (
	OptSeparator    = "separator"
	OptEscape       = "escape"
	OptEscapePolicy = "escape_policy"
	OptCharset      = "charset"
	OptFilename     = "filename"
	OptMemory       = "memory"
	OptSkipHeader   = "skip_header"
	OptAllowNull    = "allow_null"
	OptNullReplace  = "null_replace"
	OptHookProbe    = "hook_probe"
	OptMaxRows      = "max_rows"
)

// DefaultFilename 未设置文件名时使用
const DefaultFilename = "Data export"

type Option func(opt *options)

// WithSeparator 分隔符，仅csv生效
func WithSeparator(sep string) Option {
	return func(opt *options) {
		if sep != "" {
			opt.separator = sep
		}
	}
}

// WithEscape 转义符，仅csv生效
func WithEscape(esc string) Option {
	return func(opt *options) {
		opt.escape = esc
	}
}

// WithEscapePolicy 分隔符的转义方式
func WithEscapePolicy(p EscapePolicy) Option {
	return func(opt *options) {
		opt.escapePolicy = p
	}
}

// WithCharset 编码，写入xls/html/xml头部
func WithCharset(charset string) Option {
	return func(opt *options) {
		if charset != "" {
			opt.charset = charset
		}
	}
}

// WithFilename 设置导出文件名,不用加后缀，会自动加
func WithFilename(filename string) Option {
	return func(opt *options) {
		if filename != "" {
			opt.filename = filename
		}
	}
}

// WithMemory 渲染时直接返回内容，不写下载响应
func WithMemory() Option {
	return func(opt *options) {
		opt.memory = true
	}
}

// WithSkipHeader 不输出表头，仅csv支持
func WithSkipHeader() Option {
	return func(opt *options) {
		opt.skipHeader = true
	}
}

// WithNullReplacement 允许取不到字段，用 replace 填充
func WithNullReplacement(replace string) Option {
	return func(opt *options) {
		opt.allowNull = true
		opt.nullReplace = replace
	}
}

// WithHookProbe 注册钩子时用测试值调用一次，要求返回字符串
func WithHookProbe() Option {
	return func(opt *options) {
		opt.hookProbe = true
	}
}

// WithMaxRows 最大数据行数，超过会报异常
func WithMaxRows(n int) Option {
	return func(opt *options) {
		if n > 0 && n < MaxRows {
			opt.maxRows = n
		}
	}
}

// WithResolver 自定义取值方式
func WithResolver(r Resolver) Option {
	return func(opt *options) {
		if r != nil {
			opt.resolver = r
		}
	}
}

// WithLogger 日志
func WithLogger(l *zap.Logger) Option {
	return func(opt *options) {
		if l != nil {
			opt.logger = l
		}
	}
}

type options struct {
	format       Format
	separator    string       //分隔符
	escape       string       //转义符
	escapePolicy EscapePolicy //转义方式
	charset      string       //编码
	filename     string       //文件名，不要加后缀，会自动加
	memory       bool         //直接返回内容
	skipHeader   bool         //不输出表头
	allowNull    bool         //允许字段不存在
	nullReplace  string       //字段不存在或为nil时的替换值
	hookProbe    bool         //注册钩子时探测返回值
	maxRows      int          //导出最大数量，避免数据提供商出错无限数据
	resolver     Resolver
	logger       *zap.Logger
}

func newOptions(format Format, opts ...Option) *options {
	o := &options{
		format:       format,
		separator:    ",",
		escape:       `\`,
		escapePolicy: EscapePrefix,
		charset:      "utf-8",
		filename:     DefaultFilename,
		maxRows:      MaxRows,
		resolver:     DefaultResolver,
		logger:       zap.NewNop(),
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}

// Config 一次导出的配置，创建后不可修改
type Config struct {
	o *options
}

// NewConfig 校验格式与配置组合，生成配置
func NewConfig(format string, opts ...Option) (Config, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Config{}, err
	}
	o := newOptions(f, opts...)
	if o.skipHeader && f != FormatCsv {
		return Config{}, ErrInvalidConfiguration.New("skip_header is only supported by csv, got %s", f)
	}
	return Config{o: o}, nil
}

// ConfigFromMap 从配置map生成配置，opts 在map之后生效
func ConfigFromMap(format string, m map[string]any, opts ...Option) (Config, error) {
	mapped, err := mapOptions(m)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(format, append(mapped, opts...)...)
}

func mapOptions(m map[string]any) ([]Option, error) {
	var opts []Option
	var allowNull bool
	var nullReplace string
	for k, v := range m {
		var err error
		switch k {
		case OptSeparator:
			var s string
			if s, err = cast.ToStringE(v); err == nil {
				opts = append(opts, WithSeparator(s))
			}
		case OptEscape:
			var s string
			if s, err = cast.ToStringE(v); err == nil {
				opts = append(opts, WithEscape(s))
			}
		case OptEscapePolicy:
			var s string
			if s, err = cast.ToStringE(v); err == nil {
				var p EscapePolicy
				if p, err = ParseEscapePolicy(s); err == nil {
					opts = append(opts, WithEscapePolicy(p))
				}
			}
		case OptCharset:
			var s string
			if s, err = cast.ToStringE(v); err == nil {
				opts = append(opts, WithCharset(s))
			}
		case OptFilename, "fileName":
			var s string
			if s, err = cast.ToStringE(v); err == nil {
				opts = append(opts, WithFilename(s))
			}
		case OptMemory:
			var b bool
			if b, err = cast.ToBoolE(v); err == nil && b {
				opts = append(opts, WithMemory())
			}
		case OptSkipHeader:
			var b bool
			if b, err = cast.ToBoolE(v); err == nil && b {
				opts = append(opts, WithSkipHeader())
			}
		case OptAllowNull:
			allowNull, err = cast.ToBoolE(v)
		case OptNullReplace:
			nullReplace, err = cast.ToStringE(v)
		case OptHookProbe:
			var b bool
			if b, err = cast.ToBoolE(v); err == nil && b {
				opts = append(opts, WithHookProbe())
			}
		case OptMaxRows:
			var n int
			if n, err = cast.ToIntE(v); err == nil {
				opts = append(opts, WithMaxRows(n))
			}
		}
		if err != nil {
			return nil, ErrInvalidConfiguration.New("option %s: %v", k, err)
		}
	}
	if allowNull {
		opts = append(opts, WithNullReplacement(nullReplace))
	}
	return opts, nil
}

func (c Config) IsZero() bool { return c.o == nil }

func (c Config) Format() Format { return c.o.format }

func (c Config) Separator() string { return c.o.separator }

func (c Config) Escape() string { return c.o.escape }

func (c Config) EscapePolicy() EscapePolicy { return c.o.escapePolicy }

func (c Config) Charset() string { return c.o.charset }

// Filename 带后缀的文件名
func (c Config) Filename() string { return c.o.filename + "." + c.o.format.Suffix() }

func (c Config) Memory() bool { return c.o.memory }

func (c Config) SkipHeader() bool { return c.o.skipHeader }

func (c Config) AllowNull() bool { return c.o.allowNull }

func (c Config) NullReplacement() string { return c.o.nullReplace }

func (c Config) HookProbe() bool { return c.o.hookProbe }

func (c Config) MaxRows() int { return c.o.maxRows }
