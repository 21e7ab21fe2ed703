package exporter

import (
	"context"
	"io"

	"github.com/opdss/dataexporter/contracts/storage"
)

// Response 下载响应，由http框架适配实现
type Response interface {
	// SetHeader 设置响应头
	SetHeader(name, value string)
	// SetBody 写入响应内容
	SetBody(body []byte) error
}

// Exporter 导出接口
type Exporter interface {
	// Render 渲染导出内容，非内存模式时写入下载响应
	Render(resp Response) (string, error)
	// WriteTo 把渲染后的内容写到io.Writer
	WriteTo(w io.Writer) (int64, error)
	// ExportToStorage 导出到文件存储，返回下载地址
	ExportToStorage(ctx context.Context, fs storage.FileStorage) (string, error)
}
