package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache: key not found")

// CacheProvider defines the interface for key-value operations with expiry
type CacheProvider interface {
	// Get retrieves a value
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Incr increments a counter, setting its expiry when the key is created,
	// and returns the new value
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)

	// Delete removes a value
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists
	Exists(ctx context.Context, key string) (bool, error)
}
