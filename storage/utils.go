package storage

import (
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/errs"
)

var ErrStorage = errs.Class("storage")

func Size(file string) (int64, error) {
	fi, err := os.Stat(file)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func MimeType(file string) (string, error) {
	mtype, err := mimetype.DetectFile(file)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// contentType 按内容识别，导出的文本格式按后缀修正
func contentType(file string, content []byte) string {
	switch strings.ToLower(file[strings.LastIndex(file, ".")+1:]) {
	case "csv":
		return "text/csv"
	case "xls":
		return "application/vnd.ms-excel"
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	}
	return mimetype.Detect(content).String()
}
