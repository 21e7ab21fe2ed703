package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName 默认操作表
const DefaultSheetName = "Sheet1"

// Workbook 把已写入的数据生成xlsx，调用方负责Close
// 单元格内容不做格式转义，表头跟随 skip_header
func (e *Exporter) Workbook() (*excelize.File, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	fp := excelize.NewFile()
	if err := e.writeWorkbook(fp); err != nil {
		_ = fp.Close()
		return nil, err
	}
	return fp, nil
}

// WriteWorkbook 把xlsx写到io.Writer
func (e *Exporter) WriteWorkbook(w io.Writer) (int64, error) {
	fp, err := e.Workbook()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = fp.Close()
	}()
	return fp.WriteTo(w)
}

// WorkbookFilename xlsx下载文件名
func (e *Exporter) WorkbookFilename() string {
	if e.config.IsZero() {
		return ""
	}
	return e.config.o.filename + "." + XlsxSuffix
}

func (e *Exporter) writeWorkbook(fp *excelize.File) error {
	sw, err := fp.NewStreamWriter(DefaultSheetName)
	if err != nil {
		return err
	}
	//设置列宽度，需要在写入行之前
	for i, col := range e.columns.list {
		if col.Width <= 0 {
			continue
		}
		if err = sw.SetColWidth(i+1, i+1, col.Width); err != nil {
			return err
		}
	}
	for i, cells := range e.table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(cells))
		for j := range cells {
			values[j] = cells[j]
		}
		if err = sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	return sw.Flush()
}
