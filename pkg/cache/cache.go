package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Store defines the cache operations the pipeline relies on. Values are
// JSON-encoded on the way in and decoded into dest on the way out.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// Key joins key segments with the conventional ':' separator.
func Key(prefix string, parts ...interface{}) string {
	key := prefix
	for _, part := range parts {
		key = fmt.Sprintf("%s:%v", key, part)
	}
	return key
}
