package logger

import (
	"os"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var ErrLogger = errs.Class("logger")

type Config struct {
	Level       string `help:"日志级别[debug|info|warn|error]" default:"info"`
	Filename    string `help:"日志文件,为空时输出到stderr" default:""`
	MaxSize     int    `help:"单个日志文件大小(MB)" default:"100"`
	MaxBackups  int    `help:"保留的旧日志文件数量" default:"7"`
	MaxAge      int    `help:"旧日志保留天数" default:"30"`
	Compress    bool   `help:"是否压缩旧日志" default:"false"`
	Development bool   `help:"开发模式,输出console格式" default:"false"`
}

// NewLogger 根据配置创建zap日志，设置了文件名时用lumberjack切割
func NewLogger(conf Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, ErrLogger.Wrap(err)
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if conf.Development {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(encoder, writer(conf), level)
	opts := []zap.Option{zap.AddCaller()}
	if conf.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func writer(conf Config) zapcore.WriteSyncer {
	if conf.Filename == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   os.ExpandEnv(conf.Filename),
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		Compress:   conf.Compress,
	})
}
