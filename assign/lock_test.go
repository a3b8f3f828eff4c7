package assign

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestKeyedMutex(t *testing.T) {
	k := NewKeyedMutex()
	unlock, err := k.Lock(context.Background(), "b1:2025-06-01")
	if err != nil {
		t.Fatal(err)
	}

	other, err := k.Lock(context.Background(), "b1:2025-06-02")
	if err != nil {
		t.Fatalf("different key should not block: %v", err)
	}
	other()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := k.Lock(ctx, "b1:2025-06-01"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		u, err := k.Lock(context.Background(), "b1:2025-06-01")
		if err == nil {
			u()
		}
		close(acquired)
	}()
	unlock()
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
	if len(k.locks) != 0 {
		t.Fatalf("lock table not cleaned: %d entries", len(k.locks))
	}
}

func TestLockAllReleasesOnFailure(t *testing.T) {
	k := NewKeyedMutex()
	held, _ := k.Lock(context.Background(), "b")
	defer held()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := lockAll(ctx, k, []string{"c", "b", "a"}); err == nil {
		t.Fatal("expected lockAll to fail on held key")
	}
	u, err := k.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("key a should have been released: %v", err)
	}
	u()
}
