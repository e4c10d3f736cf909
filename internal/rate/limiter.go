package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds limiter tuning. A zero MaxRequests disables the limiter.
type Config struct {
	EnableIPThrottle bool
	MaxRequests      int
	Window           time.Duration
	MaxConfirms      int
}

// Limiter enforces per-email and per-IP budgets for reset flows.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckResetRequest counts one reset request for email (and ip when IP
// throttling is on) and fails once either budget is exceeded.
func (l *Limiter) CheckResetRequest(ctx context.Context, email, ip string) error {
	if l == nil || l.config.MaxRequests <= 0 {
		return nil
	}

	if err := l.hit(ctx, requestEmailKey(email), l.config.MaxRequests); err != nil {
		return err
	}
	if l.config.EnableIPThrottle && ip != "" {
		if err := l.hit(ctx, requestIPKey(ip), l.config.MaxRequests); err != nil {
			return err
		}
	}
	return nil
}

// CheckResetConfirm counts one confirmation attempt from ip.
func (l *Limiter) CheckResetConfirm(ctx context.Context, ip string) error {
	if l == nil || l.config.MaxConfirms <= 0 || ip == "" {
		return nil
	}
	return l.hit(ctx, confirmIPKey(ip), l.config.MaxConfirms)
}

// Remaining returns how many reset requests email may still make in the
// current window. Missing keys report the full budget.
func (l *Limiter) Remaining(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, requestEmailKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return l.config.MaxRequests, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if left := int64(l.config.MaxRequests) - count; left > 0 {
		return int(left), nil
	}
	return 0, nil
}

func (l *Limiter) hit(ctx context.Context, key string, max int) error {
	count, err := l.incrementWithTTL(ctx, key, l.config.Window)
	if err != nil {
		return err
	}
	if count > int64(max) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// fixed window: only the first hit sets the TTL
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func requestEmailKey(email string) string {
	return "mgrr:" + strings.ToLower(strings.TrimSpace(email))
}

func requestIPKey(ip string) string {
	return "mgrri:" + ip
}

func confirmIPKey(ip string) string {
	return "mgrc:" + ip
}
