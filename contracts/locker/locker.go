package locker

import (
	"context"
	"time"
)

type Locker interface {
	//Lock 非阻塞锁
	Lock(ctx context.Context, ttl time.Duration) error
	//TryLock 自旋锁，最多等待 wait
	TryLock(ctx context.Context, wait time.Duration) error
	// Unlock 解锁
	Unlock(ctx context.Context) error
}
