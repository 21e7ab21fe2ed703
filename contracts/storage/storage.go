package storage

import (
	"context"
	"io"
)

// FileStorage 导出文件的落地位置，导出器只需要写入和拿到下载地址
type FileStorage interface {
	// PutStream 把导出内容写到 key，已存在时覆盖
	PutStream(ctx context.Context, key string, body io.Reader) error
	// Url key 对应的下载地址
	Url(key string) string
}

// FileSystem 命令行和测试用来回读、清理导出文件
type FileSystem interface {
	FileStorage

	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists 查询失败也按不存在处理
	Exists(ctx context.Context, key string) bool
	Size(ctx context.Context, key string) (int64, error)
	MimeType(ctx context.Context, key string) (string, error)
	// Delete 只删除文件，不删除目录
	Delete(ctx context.Context, keys ...string) error
}
