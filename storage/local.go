package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/errs"

	"github.com/opdss/dataexporter/contracts/storage"
)

type LocalConfig struct {
	Endpoint string `help:"访问地址" default:"http://localhost" json:"endpoint"`
	Root     string `help:"根目录" default:"$ROOT" json:"root"`
}

var _ storage.FileSystem = (*Local)(nil)

// Local 导出文件保存到本地目录
type Local struct {
	root     string
	endpoint string
}

func NewLocal(config LocalConfig) (*Local, error) {
	if config.Root == "" {
		return nil, ErrStorage.New("local root is empty")
	}
	return &Local{
		root:     os.ExpandEnv(config.Root),
		endpoint: strings.TrimSuffix(config.Endpoint, "/"),
	}, nil
}

func (r *Local) Delete(ctx context.Context, files ...string) error {
	for _, file := range files {
		fileInfo, err := os.Stat(r.fullPath(file))
		if err != nil {
			return err
		}
		if fileInfo.IsDir() {
			return errors.New("can't delete directory")
		}
	}
	for _, file := range files {
		if err := os.Remove(r.fullPath(file)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Local) Exists(ctx context.Context, file string) bool {
	_, err := os.Stat(r.fullPath(file))
	return err == nil
}

func (r *Local) Get(ctx context.Context, file string) ([]byte, error) {
	return os.ReadFile(r.fullPath(file))
}

func (r *Local) MimeType(ctx context.Context, file string) (string, error) {
	return MimeType(r.fullPath(file))
}

func (r *Local) Put(ctx context.Context, file string, content []byte) error {
	return r.PutStream(ctx, file, bytes.NewReader(content))
}

func (r *Local) PutStream(ctx context.Context, file string, rs io.Reader) (err error) {
	file = r.fullPath(file)
	if err = os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return ErrStorage.Wrap(err)
	}
	f, err := os.Create(file)
	if err != nil {
		return ErrStorage.Wrap(err)
	}
	defer func() {
		err = errs.Combine(err, ErrStorage.Wrap(f.Close()))
	}()
	if _, err = io.Copy(f, rs); err != nil {
		return ErrStorage.Wrap(err)
	}
	return nil
}

func (r *Local) Size(ctx context.Context, file string) (int64, error) {
	return Size(r.fullPath(file))
}

func (r *Local) Url(file string) string {
	return r.endpoint + "/" + strings.TrimPrefix(filepath.ToSlash(file), "/")
}

// Path gets the full path for the file.
func (r *Local) Path(file string) string {
	return r.fullPath(file)
}

func (r *Local) fullPath(path string) string {
	realPath := filepath.Clean("/" + path)
	if realPath == "/" {
		return r.root
	}
	return filepath.Join(r.root, realPath)
}
