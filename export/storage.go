package export

import (
	"bytes"
	"context"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opdss/dataexporter/contracts/storage"
)

// ExportToStorage 导出到文件存储，返回下载地址
// 文件保存为 <uuid>/<文件名>.<后缀>，避免重名覆盖
func (e *Exporter) ExportToStorage(ctx context.Context, fs storage.FileStorage) (string, error) {
	body, err := e.Body()
	if err != nil {
		return "", err
	}
	return e.putStorage(ctx, fs, e.Filename(), body)
}

// WorkbookToStorage 导出xlsx到文件存储，返回下载地址
func (e *Exporter) WorkbookToStorage(ctx context.Context, fs storage.FileStorage) (string, error) {
	var buf bytes.Buffer
	if _, err := e.WriteWorkbook(&buf); err != nil {
		return "", err
	}
	return e.putStorage(ctx, fs, e.WorkbookFilename(), buf.Bytes())
}

func (e *Exporter) putStorage(ctx context.Context, fs storage.FileStorage, filename string, body []byte) (string, error) {
	fileKey := path.Join(uuid.NewString(), filename)
	if err := fs.PutStream(ctx, fileKey, bytes.NewReader(body)); err != nil {
		e.logger().Error("export upload failed", zap.String("file", fileKey), zap.Error(err))
		return "", err
	}
	e.logger().Info("export uploaded", zap.String("file", fileKey), zap.Int("bytes", len(body)))
	return fs.Url(fileKey), nil
}
