package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/mediaguard/clock"
	"github.com/redis/go-redis/v9"
)

// ErrDenylistUnavailable wraps Redis failures from [RedisDenylist].
var ErrDenylistUnavailable = errors.New("denylist redis unavailable")

const minDenylistTTL = time.Second

// RedisDenylist keeps revoked jti values as plain keys that expire together
// with the token they block.
type RedisDenylist struct {
	redis  redis.UniversalClient
	prefix string
	clock  clock.Clock
}

func NewRedisDenylist(redisClient redis.UniversalClient, prefix string, clk clock.Clock) *RedisDenylist {
	if prefix == "" {
		prefix = "mgdl"
	}
	return &RedisDenylist{
		redis:  redisClient,
		prefix: prefix,
		clock:  clock.OrSystem(clk),
	}
}

func (d *RedisDenylist) key(tokenID string) string {
	return d.prefix + ":" + tokenID
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.clock.Now())
	if ttl <= 0 {
		return nil
	}
	if ttl < minDenylistTTL {
		ttl = minDenylistTTL
	}

	if err := d.redis.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDenylistUnavailable, err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.redis.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDenylistUnavailable, err)
	}
	return n > 0, nil
}
