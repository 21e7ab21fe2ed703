package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowThreshold = 200 * time.Millisecond

// zapLogger gorm日志输出到zap
type zapLogger struct {
	log   *zap.Logger
	level logger.LogLevel
}

func newLogger(l *zap.Logger, level string) logger.Interface {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{log: l.Named("gorm"), level: parseLevel(level)}
}

func parseLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}
	return logger.Silent
}

func (z *zapLogger) LogMode(level logger.LogLevel) logger.Interface {
	n := *z
	n.level = level
	return &n
}

func (z *zapLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if z.level >= logger.Info {
		z.log.Info(fmt.Sprintf(msg, args...))
	}
}

func (z *zapLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if z.level >= logger.Warn {
		z.log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (z *zapLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if z.level >= logger.Error {
		z.log.Error(fmt.Sprintf(msg, args...))
	}
}

func (z *zapLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && z.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		z.log.Error("query failed", zap.Error(err), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case elapsed > slowThreshold && z.level >= logger.Warn:
		sql, rows := fc()
		z.log.Warn("slow query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case z.level >= logger.Info:
		sql, rows := fc()
		z.log.Debug("query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	}
}
