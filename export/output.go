package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"
)

// output 各格式的内容累加器，配置时确定
type output interface {
	// header 写表头，titles 为全部列名
	header(titles []string)
	// row 写一行，cells 已经按格式转义
	row(cells []string)
	// body 生成完整内容，不修改已累加的数据，可重复调用
	body() ([]byte, error)
}

var (
	_ output = (*linesOutput)(nil)
	_ output = (*markupOutput)(nil)
	_ output = (*rowsOutput)(nil)
)

func newOutput(o *options) output {
	switch o.format {
	case FormatCsv:
		return &linesOutput{separator: o.separator, escape: o.escape, policy: o.escapePolicy, skipHeader: o.skipHeader}
	case FormatJson:
		return &rowsOutput{}
	default:
		return newMarkupOutput(o.format, o.charset)
	}
}

// linesOutput csv按行累加
type linesOutput struct {
	separator  string
	escape     string
	policy     EscapePolicy
	skipHeader bool
	headerLine *string
	lines      []string
}

func (l *linesOutput) header(titles []string) {
	if l.skipHeader {
		return
	}
	//列名和单元格一样需要转义分隔符
	escaped := make([]string, len(titles))
	for i := range titles {
		escaped[i] = escapeDelimiter(titles[i], l.separator, l.escape, l.policy)
	}
	h := strings.Join(escaped, l.separator)
	l.headerLine = &h
}

func (l *linesOutput) row(cells []string) {
	l.lines = append(l.lines, strings.Join(cells, l.separator))
}

func (l *linesOutput) body() ([]byte, error) {
	return []byte(l.text()), nil
}

func (l *linesOutput) text() string {
	if l.headerLine == nil {
		return strings.Join(l.lines, "\n")
	}
	all := make([]string, 0, len(l.lines)+1)
	all = append(all, *l.headerLine)
	return strings.Join(append(all, l.lines...), "\n")
}

const generator = "github.com/opdss/dataexporter"

// markupOutput xls/html/xml 累加到一个字符串
// xml 的单元格在写入前已转义，xls/html 在 writeCells 中按html转义
type markupOutput struct {
	format Format
	titles []string
	buf    bytes.Buffer
	closer string
}

func newMarkupOutput(f Format, charset string) *markupOutput {
	m := &markupOutput{format: f}
	switch f {
	case FormatXml:
		fmt.Fprintf(&m.buf, `<?xml version="1.0" encoding="%s"?><table>`, charset)
		m.closer = "</table>"
	case FormatXls:
		fmt.Fprintf(&m.buf, `<!DOCTYPE html><html><head><meta http-equiv="Content-Type" content="text/html; charset=%s" />`+
			`<meta name="ProgId" content="Excel.Sheet"><meta name="Generator" content="%s"></head><body><table>`, charset, generator)
		m.closer = "</table></body></html>"
	default:
		fmt.Fprintf(&m.buf, `<!DOCTYPE html><html><head><meta http-equiv="Content-Type" content="text/html; charset=%s" />`+
			`<meta name="Generator" content="%s"></head><body><table>`, charset, generator)
		m.closer = "</table></body></html>"
	}
	return m
}

func (m *markupOutput) header(titles []string) {
	m.titles = titles
	if m.format == FormatXml {
		return
	}
	m.writeCells(titles)
}

func (m *markupOutput) row(cells []string) {
	if m.format != FormatXml {
		m.writeCells(cells)
		return
	}
	m.buf.WriteString("<row>")
	for i := range cells {
		name := ""
		if i < len(m.titles) {
			name = escapeXml(m.titles[i])
		}
		fmt.Fprintf(&m.buf, `<column name="%s">%s</column>`, name, cells[i])
	}
	m.buf.WriteString("</row>")
}

func (m *markupOutput) writeCells(cells []string) {
	m.buf.WriteString("<tr>")
	for i := range cells {
		m.buf.WriteString("<td>")
		m.buf.WriteString(html.EscapeString(cells[i]))
		m.buf.WriteString("</td>")
	}
	m.buf.WriteString("</tr>")
}

func (m *markupOutput) body() ([]byte, error) {
	b := make([]byte, 0, m.buf.Len()+len(m.closer))
	b = append(b, m.buf.Bytes()...)
	return append(b, m.closer...), nil
}

// rowsOutput json 每行一个对象
type rowsOutput struct {
	titles []string
	rows   []orderedRow
}

func (r *rowsOutput) header(titles []string) {
	r.titles = titles
}

func (r *rowsOutput) row(cells []string) {
	r.rows = append(r.rows, orderedRow{keys: r.titles, values: cells})
}

func (r *rowsOutput) body() ([]byte, error) {
	if len(r.rows) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(r.rows)
}

// orderedRow 按列顺序输出key的json对象
type orderedRow struct {
	keys   []string
	values []string
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(o.keys[i])
		if err != nil {
			return nil, err
		}
		var v []byte
		if i < len(o.values) {
			v, err = json.Marshal(o.values[i])
		} else {
			v, err = json.Marshal(nil)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
