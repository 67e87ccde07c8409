package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// entry is the stored unit behind a single key. Replacement swaps a new
// entry in whole; fields are never mutated after insertion except the
// access timestamp.
type entry struct {
	key        string
	value      Value
	createdAt  time.Time
	accessedAt time.Time
	ttl        time.Duration // <=0 means no expiry
}

// expired reports whether the entry's TTL has elapsed relative to its
// creation time. Access never extends the lifetime.
func (e *entry) expired(now time.Time) bool {
	if e.ttl <= 0 {
		return false
	}
	return now.Sub(e.createdAt) > e.ttl
}

// Stats reports cumulative counters for a MemoryStore.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

// MemoryStore is an in-memory Store bounded by a capacity-based LRU
// policy with per-entry TTL. Expired entries are purged lazily on access
// and, optionally, by a periodic janitor sweep.
type MemoryStore struct {
	policy Policy

	mu    sync.Mutex
	ll    *list.List // front = most recently used; elements hold *entry
	items map[string]*list.Element
	stats Stats

	janitorOnce sync.Once
	stopJanitor chan struct{}
}

// NewMemoryStore creates a new in-memory store with the given policy.
func NewMemoryStore(policy Policy) *MemoryStore {
	return &MemoryStore{
		policy:      policy,
		ll:          list.New(),
		items:       make(map[string]*list.Element),
		stopJanitor: make(chan struct{}),
	}
}

// Get retrieves a value from the store. Returns (Value{}, false) on miss
// or expiry. A hit moves the entry to the front of the LRU order and
// refreshes its access timestamp; the value and creation time are never
// touched.
func (s *MemoryStore) Get(_ context.Context, key string) (Value, bool) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		s.stats.Misses++
		return Value{}, false
	}

	ent := elem.Value.(*entry)
	if ent.expired(now) {
		// Lazy purge: an expired entry must never be reported as a hit.
		s.removeElement(elem)
		s.stats.Expirations++
		s.stats.Misses++
		return Value{}, false
	}

	ent.accessedAt = now
	s.ll.MoveToFront(elem)
	s.stats.Hits++
	return ent.value.Clone(), true
}

// Put inserts a value or replaces the entry under an existing key. The
// replacement is a whole new entry with a fresh creation time - a
// re-inserted key is never silently ignored. At capacity the
// least-recently-used entry is evicted first; Put never fails for lack
// of space. TTL<=0 stores the entry without expiry.
func (s *MemoryStore) Put(_ context.Context, key string, value Value, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !value.Finite() {
		return ErrInvalidValue
	}

	now := time.Now()
	ent := &entry{
		key:        key,
		value:      value.Clone(),
		createdAt:  now,
		accessedAt: now,
		ttl:        ttl,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		elem.Value = ent
		s.ll.MoveToFront(elem)
		return nil
	}

	s.items[key] = s.ll.PushFront(ent)

	for s.ll.Len() > s.policy.EffectiveCapacity() {
		oldest := s.ll.Back()
		if oldest == nil {
			break
		}
		s.removeElement(oldest)
		s.stats.Evictions++
	}

	return nil
}

// Invalidate removes an entry unconditionally. Idempotent - no error on miss.
func (s *MemoryStore) Invalidate(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
	}
	return nil
}

// InvalidateAll resets the store. Intended for explicit administrative
// requests, not normal request paths.
func (s *MemoryStore) InvalidateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ll.Init()
	s.items = make(map[string]*list.Element)
	return nil
}

// Len returns the number of stored entries, including expired entries
// not yet purged.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ll.Len()
}

// Stats returns a snapshot of the store's counters.
func (s *MemoryStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// StartJanitor begins a periodic sweep that physically purges expired
// entries. A non-positive interval disables the sweep. Safe to call at
// most once; Close stops the janitor.
func (s *MemoryStore) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.janitorOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.sweep(time.Now())
				case <-s.stopJanitor:
					return
				}
			}
		}()
	})
}

// Close stops the janitor goroutine if one is running.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopJanitor:
		// already closed
	default:
		close(s.stopJanitor)
	}
	return nil
}

// sweep removes all entries expired as of now.
func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for elem := s.ll.Back(); elem != nil; {
		prev := elem.Prev()
		if ent := elem.Value.(*entry); ent.expired(now) {
			s.removeElement(elem)
			s.stats.Expirations++
		}
		elem = prev
	}
}

// removeElement unlinks an element from both the list and the index.
// Callers must hold s.mu.
func (s *MemoryStore) removeElement(elem *list.Element) {
	s.ll.Remove(elem)
	delete(s.items, elem.Value.(*entry).key)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
