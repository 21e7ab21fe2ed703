package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/opdss/dataexporter/contracts/locker"
)

var ErrTimeout = errors.New("try lock time out")
var ErrFailure = errors.New("get lock failure")

// KeyPrefix 导出锁的key前缀
const KeyPrefix = "dataexport:lock:"

const delLua = `if redis.call("get",KEYS[1]) == ARGV[1] then return redis.call("del",KEYS[1]) end return 0`

var _ locker.Locker = (*Locker)(nil)

// Locker 基于redis实现的导出锁，防止同一份数据被重复导出
type Locker struct {
	client       redis.Cmdable
	unlockScript *redis.Script
	key          string
	token        string
	deadline     time.Time
}

// ExportKey 按导出来源生成锁的key，source 可以是表名或sql
func ExportKey(kind, source string) string {
	return KeyPrefix + kind + ":" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.TrimSpace(source))).String()
}

func NewLocker(key string, rdb redis.Cmdable) *Locker {
	return &Locker{
		client:       rdb,
		key:          key,
		token:        uuid.NewString(),
		unlockScript: redis.NewScript(delLua),
	}
}

// Key 锁的key
func (l *Locker) Key() string {
	return l.key
}

// Lock 非阻塞锁
func (l *Locker) Lock(ctx context.Context, ttl time.Duration) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, ttl).Result()
	if err != nil {
		return ErrRedis.Wrap(err)
	}
	if !ok {
		return ErrFailure
	}
	l.deadline = time.Now().Add(ttl)
	return nil
}

// TryLock 自旋锁，锁的过期时间与等待时间相同
func (l *Locker) TryLock(ctx context.Context, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	for {
		ok, err := l.client.SetNX(ctx, l.key, l.token, wait).Result()
		if err == nil && ok {
			l.deadline = time.Now().Add(wait)
			return nil
		}
		delay := time.Millisecond * 10
		if err != nil {
			delay = time.Millisecond * 50
		}
		select {
		case <-ctx.Done():
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return ErrRedis.Wrap(err)
			}
			return ErrTimeout
		case <-time.After(delay):
		}
	}
}

// Unlock 只删除自己持有的锁，锁已过期时什么都不做
func (l *Locker) Unlock(ctx context.Context) error {
	if l.deadline.IsZero() || time.Now().After(l.deadline) {
		return nil
	}
	ctx, cancel := context.WithDeadline(ctx, l.deadline)
	defer cancel()
	l.deadline = time.Time{}
	return ErrRedis.Wrap(l.unlockScript.Run(ctx, l.client, []string{l.key}, l.token).Err())
}
