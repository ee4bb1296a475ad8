package contest

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestKeyedLockAcquireRelease(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "t1\x00p1", time.Second)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	release()

	release, err = l.Acquire(ctx, "t1\x00p1", time.Second)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release()
}

func TestKeyedLockTimesOutOnContention(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k", time.Second)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	if _, err := l.Acquire(ctx, "k", 20*time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("contended acquire = %v, want ErrLockTimeout", err)
	}
}

func TestKeyedLockIndependentKeys(t *testing.T) {
	l := newKeyedLock()
	ctx := context.Background()

	release1, err := l.Acquire(ctx, "team-a\x00p1", time.Second)
	if err != nil {
		t.Fatalf("acquire key 1 failed: %v", err)
	}
	defer release1()

	// A different (team, problem) pair must not block.
	release2, err := l.Acquire(ctx, "team-b\x00p1", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("independent key blocked: %v", err)
	}
	release2()
}

func TestKeyedLockHonorsContextCancellation(t *testing.T) {
	l := newKeyedLock()

	release, err := l.Acquire(context.Background(), "k", time.Second)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Acquire(ctx, "k", time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled acquire = %v, want context.Canceled", err)
	}
}
