package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	storagecontract "github.com/opdss/dataexporter/contracts/storage"
	"github.com/opdss/dataexporter/export"
	"github.com/opdss/dataexporter/process"
	"github.com/opdss/dataexporter/profile"
	"github.com/opdss/dataexporter/storage"
)

// exportFlags 导出相关的公共参数
func exportFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("profile", "", "导出配置yaml文件")
	fs.String("profile-key", "", "配置文件中的导出配置key,如 profiles.users")
	fs.String("format", "csv", "导出格式["+strings.Join(formatNames(), "|")+"]")
	fs.StringSlice("columns", nil, "导出列,field 或 field:title")
	fs.StringToString("option", nil, "导出配置,如 separator=; filename=users")
	fs.String("out", "", "输出文件,为空时输出到stdout")
	fs.Bool("xlsx", false, "输出xlsx工作簿")
	fs.String("upload", "", "上传到存储[local|s3],输出下载地址")
}

func formatNames() []string {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, f.String())
	}
	return names
}

// newExporter 根据 profile 或 --format/--columns 创建导出
func newExporter(vip *viper.Viper, log *zap.Logger) (*export.Exporter, error) {
	opts := []export.Option{export.WithLogger(log), export.WithMemory()}

	var (
		p   *profile.Profile
		err error
	)
	switch {
	case vip.GetString("profile") != "":
		p, err = profile.Load(vip.GetString("profile"))
	case vip.GetString("profile-key") != "":
		p, err = profile.FromViper(vip, vip.GetString("profile-key"))
	default:
		p = &profile.Profile{Format: vip.GetString("format")}
		for _, c := range vip.GetStringSlice("columns") {
			field, title, _ := strings.Cut(c, ":")
			p.Columns = append(p.Columns, profile.Column{Field: field, Title: title})
		}
		err = p.Validate()
	}
	if err != nil {
		return nil, err
	}

	if extra := vip.GetStringMapString("option"); len(extra) > 0 {
		if p.Options == nil {
			p.Options = map[string]any{}
		}
		for k, v := range extra {
			p.Options[k] = v
		}
	}
	return p.NewExporter(opts...)
}

// output 渲染并输出到 --out、stdout 或存储，上传时 stdout 只输出下载地址
func output(ctx context.Context, vip *viper.Viper, e *export.Exporter, stdout io.Writer) error {
	if kind := vip.GetString("upload"); kind != "" {
		fs, err := newStorage(vip, kind)
		if err != nil {
			return err
		}
		var url string
		if vip.GetBool("xlsx") {
			url, err = e.WorkbookToStorage(ctx, fs)
		} else {
			url, err = e.ExportToStorage(ctx, fs)
		}
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, url+"\n")
		return err
	}

	var buf bytes.Buffer
	var err error
	if vip.GetBool("xlsx") {
		_, err = e.WriteWorkbook(&buf)
	} else {
		_, err = e.WriteTo(&buf)
	}
	if err != nil {
		return err
	}
	if out := vip.GetString("out"); out != "" {
		return process.AtomicWriteFile(os.ExpandEnv(out), buf.Bytes(), process.DefaultFilePerm)
	}
	_, err = buf.WriteTo(stdout)
	return err
}

// newStorage 存储配置读取 storage.local / storage.s3
func newStorage(vip *viper.Viper, kind string) (storagecontract.FileStorage, error) {
	switch kind {
	case "local":
		var conf storage.LocalConfig
		if err := vip.UnmarshalKey("storage.local", &conf); err != nil {
			return nil, err
		}
		return storage.NewLocal(conf)
	case "s3":
		var conf storage.S3Config
		if err := vip.UnmarshalKey("storage.s3", &conf); err != nil {
			return nil, err
		}
		return storage.NewS3(conf)
	}
	return nil, errs.New("unknown storage %q", kind)
}
