package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDialector(t *testing.T) {
	t.Setenv("EXPORT_DB_DIR", "/tmp/export")
	for _, driver := range []string{"mysql", "postgres", "sqlite3", "sqlite", "MySQL"} {
		conf := Config{Driver: driver, Dsn: "$EXPORT_DB_DIR/db"}
		dial, err := conf.Dialector()
		require.NoError(t, err, driver)
		assert.NotNil(t, dial)
	}

	_, err := (&Config{Driver: "oracle"}).Dialector()
	assert.True(t, ErrDB.Has(err))
}

func TestNewDB(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := NewDB(zap.New(core), Config{
		Driver:      Sqlite3,
		Dsn:         filepath.Join(t.TempDir(), "export.db"),
		LogLevel:    "info",
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	assert.NotZero(t, logs.FilterMessage("query").Len())

	err = db.Raw("SELECT * FROM missing").Scan(&n).Error
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())

	assert.NoError(t, Close(db))
}

func TestParseLevel(t *testing.T) {
	l := newLogger(nil, "WARN").(*zapLogger)
	assert.Equal(t, parseLevel("warn"), l.level)
	assert.Equal(t, parseLevel(""), parseLevel("verbose"))
}
