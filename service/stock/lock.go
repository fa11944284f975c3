package stock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld means another invocation holds the sync lock right now.
var ErrLockHeld = errors.New("sync run lock already held")

// RunLock serializes RunOnce invocations sharing one checkpoint store.
// Backed by a redis advisory lock; when redis is not configured the lock
// degrades to a no-op and serialization falls back to the scheduler
// (single cron slot).
type RunLock struct {
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

func NewRunLock(client *redis.Client, jobName string) *RunLock {
	l := &RunLock{
		key: "stocksync:lock:" + jobName,
		ttl: 10 * time.Minute,
	}
	if client != nil {
		l.locker = redislock.New(client)
	}
	return l
}

// Acquire obtains the lock and returns its release func. Returns
// ErrLockHeld when a concurrent run owns it.
func (l *RunLock) Acquire(ctx context.Context) (func(), error) {
	if l.locker == nil {
		return func() {}, nil
	}
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockHeld
	}
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(context.Background()) }, nil
}
