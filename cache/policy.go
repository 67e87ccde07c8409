package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// Capacity is the maximum number of entries. When exceeded, the
	// least-recently-used entry is evicted. If zero or negative,
	// DefaultCapacity is used.
	Capacity int

	// DefaultTTL is the TTL to use when none is specified.
	// If zero, entries without an explicit TTL never expire.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultCapacity is the entry bound applied when Policy.Capacity is unset.
const DefaultCapacity = 1024

// DefaultPolicy returns the default caching policy.
// Capacity: 1024 entries, DefaultTTL: 5 minutes, MaxTTL: 1 hour
func DefaultPolicy() Policy {
	return Policy{
		Capacity:   DefaultCapacity,
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     1 * time.Hour,
	}
}

// EffectiveCapacity returns the capacity to enforce.
func (p Policy) EffectiveCapacity() int {
	if p.Capacity <= 0 {
		return DefaultCapacity
	}
	return p.Capacity
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
// A result of zero means the entry never expires.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
