package export

import (
	"context"
	"io"

	"github.com/opdss/dataexporter/contracts/exporter"
	"github.com/opdss/dataexporter/contracts/storage"
)

const TagName = "export" // export 导出字段的tag
const MaxRows = 1000000   //最大导出数据,防止dataProvider出错无限数据导出

// 导出文件后缀
const (
	CsvSuffix  = "csv"
	XlsSuffix  = "xls"
	HtmlSuffix = "html"
	XmlSuffix  = "xml"
	JsonSuffix = "json"
	XlsxSuffix = "xlsx"
)

// ToString 导出为字符串的快捷方法
func ToString(format string, columns []Column, rows any, opts ...Option) (string, error) {
	e, err := build(format, columns, rows, append(opts, WithMemory())...)
	if err != nil {
		return "", err
	}
	return e.Render(nil)
}

// ToResponse 导出到下载响应的快捷方法
func ToResponse(resp exporter.Response, format string, columns []Column, rows any, opts ...Option) error {
	e, err := build(format, columns, rows, opts...)
	if err != nil {
		return err
	}
	_, err = e.Render(resp)
	return err
}

// ToStream 导出到io.Writer的快捷方法
func ToStream(w io.Writer, format string, columns []Column, rows any, opts ...Option) (int64, error) {
	e, err := build(format, columns, rows, opts...)
	if err != nil {
		return 0, err
	}
	return e.WriteTo(w)
}

// ToStorage 导出到文件存储的快捷方法，返回下载地址
func ToStorage(ctx context.Context, fs storage.FileStorage, format string, columns []Column, rows any, opts ...Option) (string, error) {
	e, err := build(format, columns, rows, opts...)
	if err != nil {
		return "", err
	}
	return e.ExportToStorage(ctx, fs)
}

func build(format string, columns []Column, rows any, opts ...Option) (*Exporter, error) {
	cfg, err := NewConfig(format, opts...)
	if err != nil {
		return nil, err
	}
	e, err := NewExporter().ApplyConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err = e.DeclareColumns(columns...); err != nil {
		return nil, err
	}
	if err = e.IngestRows(rows); err != nil {
		return nil, err
	}
	return e, nil
}
