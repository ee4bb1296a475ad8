package contest

import (
	"context"
	"sync"
	"time"
)

// keyedLock serializes work per string key. Different keys never contend;
// the arbiter keys it by (team, problem) so two teams, or one team on two
// problems, submit fully in parallel.
type keyedLock struct {
	mu sync.Mutex
	m  map[string]chan struct{}
}

func newKeyedLock() *keyedLock {
	return &keyedLock{m: make(map[string]chan struct{})}
}

func (l *keyedLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.m[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.m[key] = ch
	}
	return ch
}

// Acquire takes the lock for key, waiting at most timeout. It returns a
// release func on success and ErrLockTimeout if the holder did not release
// in time. Acquisition also aborts early if ctx is cancelled.
func (l *keyedLock) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	ch := l.slot(key)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
