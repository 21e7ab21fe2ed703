package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/opdss/dataexporter/db"
	"github.com/opdss/dataexporter/iterator"
	"github.com/opdss/dataexporter/process"
	"github.com/opdss/dataexporter/redis"
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "export the rows of a table or a query",
	RunE:  cmdSql,
}

func init() {
	exportFlags(sqlCmd)
	fs := sqlCmd.Flags()
	fs.String("db.driver", "sqlite3", "数据库驱动[mysql|postgres|sqlite3]")
	fs.String("db.dsn", "", "数据库连接")
	fs.String("db.log-level", "warn", "数据库日志打印级别[error|warn|info]")
	fs.String("table", "", "导出的表")
	fs.String("query", "", "导出的原生sql,设置后忽略 --table")
	fs.Int("page-size", 2000, "分页查询每页数量")
	fs.String("order", "", "分页排序,如 id 或 created_at desc,id")
	fs.Duration("lock", 0, "用redis加锁防止同一数据重复导出,锁的有效期,0不加锁")
	fs.String("redis.host", "127.0.0.1", "redis主机")
	fs.Int("redis.port", 6379, "redis端口")
	fs.String("redis.password", "", "redis密码")
	fs.Int("redis.db", 0, "redis数据库")
}

func cmdSql(cmd *cobra.Command, args []string) (err error) {
	vip, err := process.Viper(cmd)
	if err != nil {
		return err
	}
	log := zap.L().Named("sql")
	if vip.GetString("table") == "" && vip.GetString("query") == "" {
		return errs.New("--table or --query is required")
	}

	conf := db.Config{
		Driver:   vip.GetString("db.driver"),
		Dsn:      vip.GetString("db.dsn"),
		LogLevel: vip.GetString("db.log-level"),
	}
	gdb, err := db.NewDB(log, conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()

	e, err := newExporter(vip, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ttl := vip.GetDuration("lock"); ttl > 0 {
		unlock, err := lockExport(ctx, vip, ttl)
		if err != nil {
			return err
		}
		defer unlock()
	}
	opt := iterator.GormOption{Raw: vip.GetString("query"), Order: vip.GetString("order")}
	tx := gdb
	if opt.Raw == "" {
		tx = gdb.Table(vip.GetString("table"))
	}
	it := iterator.NewGorm[map[string]any](ctx, tx, opt,
		iterator.WithPagedLimit[map[string]any](vip.GetInt("page-size")))
	if err = e.IngestIterator(ctx, iterator.Any[map[string]any](it)); err != nil {
		return err
	}
	log.Info("sql export done", zap.Int("rows", e.Total()))
	return output(ctx, vip, e, cmd.OutOrStdout())
}

// lockExport 同一张表或同一条sql同时只允许一个导出
func lockExport(ctx context.Context, vip *viper.Viper, ttl time.Duration) (func(), error) {
	client, err := redis.NewRedis(ctx, redis.Config{
		Host:     vip.GetString("redis.host"),
		Port:     vip.GetInt("redis.port"),
		Password: vip.GetString("redis.password"),
		Db:       vip.GetInt("redis.db"),
	})
	if err != nil {
		return nil, err
	}
	source, kind := vip.GetString("query"), "query"
	if source == "" {
		source, kind = vip.GetString("table"), "table"
	}
	l := redis.NewLocker(redis.ExportKey(kind, source), client)
	if err = l.Lock(ctx, ttl); err != nil {
		_ = client.Close()
		if errors.Is(err, redis.ErrFailure) {
			return nil, errs.New("another export of this %s is running", kind)
		}
		return nil, err
	}
	zap.L().Debug("export locked", zap.String("key", l.Key()))
	return func() {
		if err := l.Unlock(context.Background()); err != nil {
			zap.L().Warn("export unlock failed", zap.String("key", l.Key()), zap.Error(err))
		}
		_ = client.Close()
	}, nil
}
