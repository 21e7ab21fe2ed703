package process

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
)

// ErrProcess 命令执行和导出文件落盘的错误
var ErrProcess = errs.Class("process")

// DefaultFilePerm 导出文件默认权限
const DefaultFilePerm fs.FileMode = 0o644

func init() {
	// 双击运行时给出提示，导出工具只能在终端里用
	cobra.MousetrapHelpText = "dataexport 是命令行工具，请在终端中运行。\n" +
		"运行 \"dataexport help\" 查看用法。\n"
}

// fileExists 文件不存在时返回 false，其他 stat 错误原样返回
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, ErrProcess.Wrap(err)
}

// AtomicWriteFile 先写同目录下的临时文件，刷盘后再改名
// 读方要么看到旧文件，要么看到完整的导出结果
func AtomicWriteFile(outfile string, data []byte, perm fs.FileMode) error {
	if perm == 0 {
		perm = DefaultFilePerm
	}
	dir, name := filepath.Split(outfile)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return ErrProcess.Wrap(err)
	}

	//失败时清理临时文件
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return ErrProcess.Wrap(err)
	}
	if err = tmp.Sync(); err != nil {
		return ErrProcess.Wrap(err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return ErrProcess.Wrap(err)
	}
	if err = tmp.Close(); err != nil {
		return ErrProcess.Wrap(err)
	}
	if err = os.Rename(tmp.Name(), outfile); err != nil {
		return ErrProcess.Wrap(err)
	}
	committed = true
	return nil
}
