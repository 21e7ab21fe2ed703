package export

import "strings"

// Format 导出格式
type Format string

const (
	FormatCsv  Format = "csv"  // 分隔符文本
	FormatXls  Format = "xls"  // excel可直接打开的html
	FormatHtml Format = "html" // html表格
	FormatXml  Format = "xml"
	FormatJson Format = "json"
)

var formats = map[Format]struct {
	suffix      string
	contentType string
}{
	FormatCsv:  {CsvSuffix, "text/csv"},
	FormatXls:  {XlsSuffix, "application/vnd.ms-excel"},
	FormatHtml: {HtmlSuffix, "text/html"},
	FormatXml:  {XmlSuffix, "application/xml"},
	FormatJson: {JsonSuffix, "application/json"},
}

// ParseFormat 解析格式名，大小写不敏感
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := formats[f]; !ok {
		return "", ErrUnsupportedFormat.New("the format %q is not supported", name)
	}
	return f, nil
}

// Formats 支持的格式
func Formats() []Format {
	return []Format{FormatCsv, FormatXls, FormatHtml, FormatXml, FormatJson}
}

// Suffix 文件后缀
func (f Format) Suffix() string {
	return formats[f].suffix
}

// ContentType 下载时的Content-Type
func (f Format) ContentType() string {
	return formats[f].contentType
}

// IsMarkup xls/html/xml 使用标签嵌套输出
func (f Format) IsMarkup() bool {
	return f == FormatXls || f == FormatHtml || f == FormatXml
}

func (f Format) String() string {
	return string(f)
}
