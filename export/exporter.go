package export

import (
	"bytes"
	"context"
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/opdss/dataexporter/contracts/exporter"
	"github.com/opdss/dataexporter/contracts/iterator"
)

var _ exporter.Exporter = (*Exporter)(nil)

// Exporter 一次导出会话：配置 -> 设置列 -> 写数据 -> 渲染
// 不支持并发使用，也不能重复使用
type Exporter struct {
	config  Config
	columns *columns
	out     output
	table   [][]string //未按格式转义的单元格数据，含表头，导出xlsx使用
	total   int
}

func NewExporter() *Exporter {
	return &Exporter{columns: newColumns()}
}

// Configure 按格式和配置map初始化
func (e *Exporter) Configure(format string, m map[string]any, opts ...Option) (*Exporter, error) {
	cfg, err := ConfigFromMap(format, m, opts...)
	if err != nil {
		return e, err
	}
	if _, err = e.ApplyConfig(cfg); err != nil {
		return e, err
	}
	for k := range m {
		if !knownOption(k) {
			e.logger().Debug("unknown export option ignored", zap.String("option", k))
		}
	}
	return e, nil
}

// ApplyConfig 使用已生成的配置初始化
func (e *Exporter) ApplyConfig(cfg Config) (*Exporter, error) {
	if cfg.IsZero() {
		return e, ErrNotConfigured.New("config is empty, use NewConfig")
	}
	if !e.config.IsZero() {
		return e, ErrInvalidConfiguration.New("exporter is already configured as %s", e.config.Format())
	}
	e.config = cfg
	e.out = newOutput(cfg.o)
	e.logger().Debug("export configured",
		zap.Stringer("format", cfg.Format()),
		zap.String("filename", cfg.Filename()),
		zap.Bool("memory", cfg.Memory()))
	return e, nil
}

// Config 当前配置
func (e *Exporter) Config() Config {
	return e.config
}

// DeclareColumns 设置导出列，同时生成表头
func (e *Exporter) DeclareColumns(cols ...Column) error {
	if e.config.IsZero() {
		return ErrNotConfigured.New("call Configure before DeclareColumns")
	}
	for _, col := range cols {
		e.columns.add(col)
	}
	if e.columns.nums() == 0 {
		return ErrNotConfigured.New("no export columns declared")
	}
	for _, col := range cols {
		if col.Hook == nil {
			continue
		}
		if err := e.RegisterHook(col.Hook, col.Field); err != nil {
			return err
		}
	}
	titles := append([]string(nil), e.columns.titles...)
	e.out.header(titles)
	if !e.config.SkipHeader() {
		e.table = append(e.table[:0:0], titles)
	}
	e.logger().Debug("export columns declared", zap.Strings("titles", titles))
	return nil
}

// RegisterHook 给列注册钩子，target 可以是 Hook、一元函数、Method 或 [handler, "Method"]
// 同一列重复注册会覆盖
func (e *Exporter) RegisterHook(target any, column string) error {
	handler, name, isPair, err := pairParts(target)
	if err != nil {
		return err
	}
	if !e.columns.has(column) {
		return ErrUnknownHookColumn.New("column %q is not declared", column)
	}
	if isPair {
		method, ok := name.(string)
		if !ok {
			return ErrHookNotCallable.New("method name must be a string, got %T", name)
		}
		target = Method{Handler: handler, Name: method}
	}
	h, err := newHook(target)
	if err != nil {
		return err
	}
	if !e.config.IsZero() && e.config.HookProbe() {
		if err = probeHook(h); err != nil {
			return err
		}
	}
	e.columns.hooks[column] = h
	e.logger().Debug("export hook registered", zap.String("column", column))
	return nil
}

// IngestRows 写入数据，rows 需要是数组或切片，元素可以是 map、struct、struct指针或数组
func (e *Exporter) IngestRows(rows any) error {
	if err := e.ready(); err != nil {
		return err
	}
	rv := indirect(reflect.ValueOf(rows))
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return ErrInvalidRows.New("rows must be a slice or an array, got %T", rows)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := e.ingest(valueOf(rv.Index(i))); err != nil {
			return err
		}
	}
	e.logger().Debug("export rows ingested", zap.Int("rows", rv.Len()), zap.Int("total", e.total))
	return nil
}

// IngestIterator 从迭代器写入数据，支持取消和最大行数限制
func (e *Exporter) IngestIterator(ctx context.Context, it iterator.Iterator[any]) error {
	if err := e.ready(); err != nil {
		return err
	}
	for it.Next() {
		//收到取消导出信号
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.ingest(it.Value()); err != nil {
			return err
		}
	}
	if f, ok := it.(iterator.Failer); ok && f.Err() != nil {
		return f.Err()
	}
	return nil
}

func (e *Exporter) ready() error {
	if e.config.IsZero() {
		return ErrNotConfigured.New("call Configure before ingesting rows")
	}
	if e.columns.nums() == 0 {
		return ErrNotConfigured.New("call DeclareColumns before ingesting rows")
	}
	return nil
}

func (e *Exporter) ingest(rowData any) error {
	//检查是否超过最大导出限制
	if e.total >= e.config.MaxRows() {
		return ErrMaximumLimit
	}
	cells, err := e.processRow(rowData)
	if err != nil {
		return err
	}
	e.table = append(e.table, cells)
	e.out.row(e.formatCells(cells))
	e.total++
	return nil
}

// processRow 取值 -> 钩子 -> 去标签 -> 去换行
func (e *Exporter) processRow(rowData any) ([]string, error) {
	resolver := e.config.o.resolver
	cells := make([]string, e.columns.nums())
	for i, field := range e.columns.fields {
		v, ok := resolver.Resolve(rowData, field, i)
		if !ok {
			if !e.config.AllowNull() {
				return nil, ErrFieldResolution.New("row %d: cannot resolve field %q", e.total+1, field)
			}
			e.logger().Debug("export field missing, replaced", zap.Int("row", e.total+1), zap.String("field", field))
			v = e.config.NullReplacement()
		} else if v == nil {
			v = " "
			if e.config.AllowNull() {
				v = e.config.NullReplacement()
			}
		}
		if h := e.columns.hooks[field]; h != nil {
			v = h(v)
		}
		cells[i] = normalizeNewlines(stripTags(toString(v)))
	}
	return cells, nil
}

// formatCells 按格式转义
func (e *Exporter) formatCells(cells []string) []string {
	switch e.config.Format() {
	case FormatCsv:
		out := make([]string, len(cells))
		for i := range cells {
			out[i] = escapeDelimiter(cells[i], e.config.Separator(), e.config.Escape(), e.config.EscapePolicy())
		}
		return out
	case FormatXml:
		out := make([]string, len(cells))
		for i := range cells {
			out[i] = escapeXml(cells[i])
		}
		return out
	default:
		return cells
	}
}

// PrepareDelimitedText csv的内容，按行用换行符连接
func (e *Exporter) PrepareDelimitedText() (string, error) {
	if e.config.IsZero() {
		return "", ErrNotConfigured.New("call Configure before PrepareDelimitedText")
	}
	l, ok := e.out.(*linesOutput)
	if !ok {
		return "", ErrInvalidConfiguration.New("delimited text is not available for %s", e.config.Format())
	}
	return l.text(), nil
}

// Body 渲染后的完整内容，可重复调用
func (e *Exporter) Body() ([]byte, error) {
	if e.config.IsZero() {
		return nil, ErrNotConfigured.New("call Configure before rendering")
	}
	return e.out.body()
}

// Render 渲染导出内容
// 内存模式直接返回内容，resp 可以为nil；否则把下载头和内容写入 resp，同时返回内容
func (e *Exporter) Render(resp exporter.Response) (string, error) {
	body, err := e.Body()
	if err != nil {
		return "", err
	}
	e.logger().Info("export rendered",
		zap.Stringer("format", e.config.Format()),
		zap.String("filename", e.Filename()),
		zap.Int("rows", e.total),
		zap.Int("bytes", len(body)),
		zap.Bool("memory", e.config.Memory()))
	if e.config.Memory() {
		return string(body), nil
	}
	if resp == nil {
		return "", ErrInvalidConfiguration.New("a response is required when memory mode is off")
	}
	resp.SetHeader("Cache-Control", "public")
	resp.SetHeader("Content-Type", e.ContentType())
	resp.SetHeader("Content-Disposition", `attachment; filename="`+e.Filename()+`"`)
	if err = resp.SetBody(body); err != nil {
		return "", err
	}
	return string(body), nil
}

// WriteTo 导出到io.Writer
func (e *Exporter) WriteTo(w io.Writer) (int64, error) {
	body, err := e.Body()
	if err != nil {
		return 0, err
	}
	return bytes.NewReader(body).WriteTo(w)
}

// ContentType 下载时的Content-Type
func (e *Exporter) ContentType() string {
	if e.config.IsZero() {
		return ""
	}
	return e.config.Format().ContentType()
}

// Filename 带后缀的下载文件名
func (e *Exporter) Filename() string {
	if e.config.IsZero() {
		return ""
	}
	return e.config.Filename()
}

// Total 已写入的数据行数
func (e *Exporter) Total() int {
	return e.total
}

func (e *Exporter) logger() *zap.Logger {
	if e.config.IsZero() {
		return zap.NewNop()
	}
	return e.config.o.logger
}

func knownOption(k string) bool {
	switch k {
	case OptSeparator, OptEscape, OptEscapePolicy, OptCharset, OptFilename, "fileName",
		OptMemory, OptSkipHeader, OptAllowNull, OptNullReplace, OptHookProbe, OptMaxRows:
		return true
	}
	return false
}
