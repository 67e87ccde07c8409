package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore     = errors.New("cache: store is nil")
	ErrInvalidKey   = errors.New("cache: key is invalid")
	ErrKeyTooLong   = errors.New("cache: key exceeds max length")
	ErrInvalidValue = errors.New("cache: value is not finite")
)

// Store is the interface for caching calculation results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: Get returns a copy; callers never hold cached storage.
// - Errors: Get should never error; it returns (Value{}, false) on miss.
// - Capacity: a full store evicts to make room and never fails a Put
//   for lack of space.
type Store interface {
	// Get retrieves a cached value. Returns (Value{}, false) on miss or
	// expiry. A hit refreshes recency for eviction ordering but never
	// the stored value or its creation time.
	Get(ctx context.Context, key string) (Value, bool)

	// Put inserts a value or replaces an existing entry under the same
	// key. TTL<=0 means the entry never expires on its own. Returns
	// ErrInvalidValue if the value contains a non-finite number.
	Put(ctx context.Context, key string, value Value, ttl time.Duration) error

	// Invalidate removes a cached value. Idempotent - no error on miss.
	Invalidate(ctx context.Context, key string) error

	// InvalidateAll removes every entry. Administrative use only.
	InvalidateAll(ctx context.Context) error

	// Len returns the number of live entries, expired ones included
	// until they are purged.
	Len() int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
