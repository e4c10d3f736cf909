package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackendUnavailable wraps every failure talking to the backing store.
var ErrBackendUnavailable = errors.New("cache backend unavailable")

// Backend is the hash-like store contract the cache needs. GetField reports
// a missing field with ok=false and a nil error.
type Backend interface {
	SetField(ctx context.Context, group, field string, value []byte, ttl time.Duration) error
	GetField(ctx context.Context, group, field string) (value []byte, ok bool, err error)
	DeleteField(ctx context.Context, group, field string) error
	ListFields(ctx context.Context, group string) ([]string, error)
	DeleteFields(ctx context.Context, group string, fields ...string) error
	Expire(ctx context.Context, group string, ttl time.Duration) error
}
