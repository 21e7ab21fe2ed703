package db

import (
	"os"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const Mysql = "mysql"

const Postgresql = "postgres"

const Sqlite3 = "sqlite3"

var ErrDB = errs.Class("DB")

// Config 导出数据源
type Config struct {
	Driver          string        `help:"数据库驱动[mysql|postgres|sqlite3]" default:"sqlite3"`
	Dsn             string        `help:"数据库连接"  default:"$ROOT/sqlite.db"`
	LogLevel        string        `help:"数据库日志打印级别,默认为空,可选[error|warn|info]" default:"warn"`
	MaxIdleConn     int           `help:"连接池中空闲连接的最大数量" default:"10"`
	MaxOpenConn     int           `help:"打开数据库连接的最大数量" default:"100"`
	ConnMaxLifetime time.Duration `help:"连接可复用的最大时间" default:"1h"`
	ConnMaxIdleTime time.Duration `help:"连接可以空闲的最长时间" default:"0"`
}

func (conf *Config) Dialector() (dial gorm.Dialector, err error) {
	dsn := os.ExpandEnv(conf.Dsn)
	switch strings.ToLower(conf.Driver) {
	case Mysql:
		dial = mysql.New(mysql.Config{
			DSN:                       dsn,
			SkipInitializeWithVersion: false, // 根据当前 MySQL 版本自动配置
		})
	case Postgresql:
		dial = postgres.New(postgres.Config{
			DSN: dsn,
		})
	case Sqlite3, "sqlite":
		dial = sqlite.Open(dsn)
	default:
		return nil, ErrDB.New("unsupported driver %q", conf.Driver)
	}
	return
}

// NewDB 打开导出使用的只读连接
func NewDB(zapLog *zap.Logger, cfg Config) (*gorm.DB, error) {
	dial, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newLogger(zapLog, cfg.LogLevel),
	})
	if err != nil {
		return nil, ErrDB.Wrap(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, ErrDB.Wrap(err)
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return db, nil
}

// Close 关闭连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return ErrDB.Wrap(err)
	}
	return ErrDB.Wrap(sqlDB.Close())
}
