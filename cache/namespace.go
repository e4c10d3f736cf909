package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Logical buckets used by the API routers.
const (
	BucketResourcePages      = "resource_pages"
	BucketUserProfile        = "user_profile"
	BucketListActiveChannels = "list_active_channels"
	BucketChannelStory       = "channel_story"
)

// DefaultTTL applies when Config.DefaultTTL is zero.
const DefaultTTL = 60 * time.Second

// Config holds namespace settings.
type Config struct {
	Prefix     string
	DefaultTTL time.Duration
}

// Hooks observe lookups; nil functions are skipped.
type Hooks struct {
	OnHit  func(logical string)
	OnMiss func(logical string)
}

// Namespace is a prefixed view over a [Backend]. Concurrent writes to the
// same field are last-write-wins.
type Namespace struct {
	backend Backend
	config  Config
	hooks   Hooks
}

func NewNamespace(backend Backend, cfg Config, hooks Hooks) (*Namespace, error) {
	if backend == nil {
		return nil, errors.New("cache backend is required")
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.DefaultTTL < 0 {
		return nil, errors.New("cache TTL must be positive")
	}
	if strings.Contains(cfg.Prefix, separator) {
		return nil, fmt.Errorf("cache prefix must not contain %q", separator)
	}
	return &Namespace{backend: backend, config: cfg, hooks: hooks}, nil
}

// Prefix returns the namespace prefix.
func (n *Namespace) Prefix() string {
	return n.config.Prefix
}

// BuildKey returns prefix|logical|slug, leaving out empty segments.
// The result is deterministic for identical arguments.
func (n *Namespace) BuildKey(logical string, params Params) string {
	return joinNonEmpty(n.config.Prefix, logical, params.Slug())
}

func (n *Namespace) group(logical string) string {
	return joinNonEmpty(n.config.Prefix, logical)
}

// Get decodes the cached value into dst. A miss returns (false, nil).
func (n *Namespace) Get(ctx context.Context, logical string, params Params, dst any) (bool, error) {
	raw, ok, err := n.backend.GetField(ctx, n.group(logical), fieldFor(params))
	if err != nil {
		return false, err
	}
	if !ok {
		if n.hooks.OnMiss != nil {
			n.hooks.OnMiss(logical)
		}
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", logical, err)
	}
	if n.hooks.OnHit != nil {
		n.hooks.OnHit(logical)
	}
	return true, nil
}

// Set caches value with the default TTL.
func (n *Namespace) Set(ctx context.Context, logical string, params Params, value any) error {
	return n.SetWithTTL(ctx, logical, params, value, n.config.DefaultTTL)
}

// SetWithTTL caches value and resets the TTL of the whole logical group.
func (n *Namespace) SetWithTTL(ctx context.Context, logical string, params Params, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = n.config.DefaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", logical, err)
	}
	return n.backend.SetField(ctx, n.group(logical), fieldFor(params), raw, ttl)
}

// Delete removes exactly one entry.
func (n *Namespace) Delete(ctx context.Context, logical string, params Params) error {
	return n.backend.DeleteField(ctx, n.group(logical), fieldFor(params))
}

// DeleteByPrefix removes every entry of the logical group whose slug starts
// with pattern. It lists all fields of the group first, so the cost is linear
// in the number of cached variants, and it may remove more than strictly
// needed (channel_id=ab also matches channel_id=abc). An empty pattern clears
// the group.
func (n *Namespace) DeleteByPrefix(ctx context.Context, logical, pattern string) (int, error) {
	group := n.group(logical)
	fields, err := n.backend.ListFields(ctx, group)
	if err != nil {
		return 0, err
	}

	matched := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, pattern) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}
	if err := n.backend.DeleteFields(ctx, group, matched...); err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Touch resets the TTL of a logical group without writing to it.
func (n *Namespace) Touch(ctx context.Context, logical string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = n.config.DefaultTTL
	}
	return n.backend.Expire(ctx, n.group(logical), ttl)
}
