package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each group as a Redis hash.
type RedisBackend struct {
	redis redis.UniversalClient
}

func NewRedisBackend(redisClient redis.UniversalClient) *RedisBackend {
	return &RedisBackend{redis: redisClient}
}

// SetField writes the field and resets the group TTL in one round trip.
func (b *RedisBackend) SetField(ctx context.Context, group, field string, value []byte, ttl time.Duration) error {
	_, err := b.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, group, field, value)
		if ttl > 0 {
			pipe.Expire(ctx, group, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) GetField(ctx context.Context, group, field string) ([]byte, bool, error) {
	raw, err := b.redis.HGet(ctx, group, field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return raw, true, nil
}

func (b *RedisBackend) DeleteField(ctx context.Context, group, field string) error {
	if err := b.redis.HDel(ctx, group, field).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) ListFields(ctx context.Context, group string) ([]string, error) {
	fields, err := b.redis.HKeys(ctx, group).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return fields, nil
}

func (b *RedisBackend) DeleteFields(ctx context.Context, group string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := b.redis.HDel(ctx, group, fields...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RedisBackend) Expire(ctx context.Context, group string, ttl time.Duration) error {
	if err := b.redis.Expire(ctx, group, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}
