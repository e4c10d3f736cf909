package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiterTest(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return New(rdb, cfg), mr
}

func TestResetRequestFixedWindow(t *testing.T) {
	l, mr := newLimiterTest(t, Config{MaxRequests: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.CheckResetRequest(ctx, "Alice@Example.com", ""); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if err := l.CheckResetRequest(ctx, "alice@example.com ", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if left, err := l.Remaining(ctx, "alice@example.com"); err != nil || left != 0 {
		t.Fatalf("remaining = %d, %v", left, err)
	}

	mr.FastForward(time.Minute + time.Second)
	if err := l.CheckResetRequest(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("expected new window, got %v", err)
	}
}

func TestResetRequestIPThrottle(t *testing.T) {
	l, _ := newLimiterTest(t, Config{MaxRequests: 1, Window: time.Minute, EnableIPThrottle: true})
	ctx := context.Background()

	if err := l.CheckResetRequest(ctx, "a@example.com", "10.0.0.1"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := l.CheckResetRequest(ctx, "b@example.com", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected IP budget to be spent, got %v", err)
	}
}

func TestDisabledLimiter(t *testing.T) {
	l, _ := newLimiterTest(t, Config{})
	for i := 0; i < 5; i++ {
		if err := l.CheckResetRequest(context.Background(), "a@example.com", "ip"); err != nil {
			t.Fatalf("disabled limiter returned %v", err)
		}
	}
	var nilLimiter *Limiter
	if err := nilLimiter.CheckResetConfirm(context.Background(), "ip"); err != nil {
		t.Fatalf("nil limiter returned %v", err)
	}
}

func TestConfirmThrottle(t *testing.T) {
	l, _ := newLimiterTest(t, Config{MaxConfirms: 1, Window: time.Minute})
	ctx := context.Background()
	if err := l.CheckResetConfirm(ctx, "10.0.0.2"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := l.CheckResetConfirm(ctx, "10.0.0.2"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRedisFailure(t *testing.T) {
	l, mr := newLimiterTest(t, Config{MaxRequests: 3})
	mr.Close()
	if err := l.CheckResetRequest(context.Background(), "a@example.com", ""); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
