package recurrence

import (
	"context"
	"sync"

	"github.com/jonwraymond/calcops/cache"
)

// Memo answers repeated term queries for overlapping ranges by keeping
// the longest computed prefix of the sequence in the calculation cache
// and extending it incrementally: O(n) time amortized across calls,
// O(n) space for the extent computed so far.
//
// Contract:
// - Concurrency: safe for concurrent use; extension is serialized.
// - Eviction: losing the cached extent only costs recomputation.
type Memo struct {
	eng   *Engine
	store cache.Store
	key   string

	mu sync.Mutex // serializes read-extend-write of the extent
}

// extentKind names the cached prefix entry in the key space.
const extentKind = "fibonacci_force.extent"

// NewMemo creates a memoized view over eng backed by store. The extent
// entry's key is derived through keyer so it shares the engine's key
// discipline.
func NewMemo(eng *Engine, store cache.Store, keyer cache.Keyer) (*Memo, error) {
	if store == nil {
		return nil, cache.ErrNilStore
	}
	key, err := keyer.Key(extentKind, nil)
	if err != nil {
		return nil, err
	}
	return &Memo{eng: eng, store: store, key: key}, nil
}

// Term returns the n-th term, reusing and growing the cached extent.
// The extent entry is stored without TTL: it is a pure function of the
// index and can never go stale.
func (m *Memo) Term(ctx context.Context, n int) (float64, error) {
	if err := m.eng.checkIndex(n); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	terms := []float64{0, 1}
	if cached, ok := m.store.Get(ctx, m.key); ok && len(cached.Samples) >= 2 {
		terms = cached.Samples
	}

	if n < len(terms) {
		return terms[n], nil
	}

	terms, err := extend(terms, n)
	if err != nil {
		return 0, err
	}

	// Replace the extent with the grown prefix. Put replaces the prior
	// entry; a failed computation never reaches this point.
	value := cache.Value{
		Scalar:  terms[n],
		Samples: terms,
	}
	if err := m.store.Put(ctx, m.key, value, 0); err != nil {
		return 0, err
	}
	return terms[n], nil
}
