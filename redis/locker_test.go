package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportKey(t *testing.T) {
	k := ExportKey("table", "users")
	assert.True(t, strings.HasPrefix(k, KeyPrefix+"table:"))
	assert.Equal(t, k, ExportKey("table", " users\n"))
	assert.NotEqual(t, k, ExportKey("table", "orders"))
	assert.NotEqual(t, k, ExportKey("query", "users"))
}

func TestConfigOptions(t *testing.T) {
	opts := Config{Host: "redis", Port: 6380, Db: 2, DialTimeout: time.Second}.options()
	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, time.Second, opts.DialTimeout)
}

// DATAEXPORT_TEST_REDIS=127.0.0.1:6379 runs the locker against a real server.
func TestLocker(t *testing.T) {
	addr := os.Getenv("DATAEXPORT_TEST_REDIS")
	if addr == "" {
		t.Skip("DATAEXPORT_TEST_REDIS not set")
	}
	host, port, _ := strings.Cut(addr, ":")
	ctx := context.Background()
	client, err := NewRedis(ctx, Config{Host: host, Port: cast.ToInt(port)})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	key := ExportKey("test", t.Name()+time.Now().String())
	a, b := NewLocker(key, client), NewLocker(key, client)
	require.NoError(t, a.Lock(ctx, time.Second))
	assert.ErrorIs(t, b.Lock(ctx, time.Second), ErrFailure)
	assert.ErrorIs(t, b.TryLock(ctx, 100*time.Millisecond), ErrTimeout)

	// b does not own the lock
	require.NoError(t, b.Unlock(ctx))
	require.NoError(t, a.Unlock(ctx))
	require.NoError(t, b.TryLock(ctx, time.Second))
	require.NoError(t, b.Unlock(ctx))
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), Config{Host: "127.0.0.1", Port: 1, DialTimeout: 100 * time.Millisecond})
	assert.True(t, ErrRedis.Has(err))
}
