package cache

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_GetPutInvalidate(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	// Get on empty store
	val, ok := store.Get(ctx, "nonexistent")
	if ok {
		t.Error("Get on empty store should return ok=false")
	}
	if val.Samples != nil {
		t.Error("Get on empty store should return zero Value")
	}

	// Put then Get
	key := "calc:force:deadbeef00000000"
	want := Value{Scalar: 42.5}
	if err := store.Put(ctx, key, want, 5*time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Error("Get after Put should return ok=true")
	}
	if got.Scalar != want.Scalar {
		t.Errorf("Get returned %v, want %v", got.Scalar, want.Scalar)
	}

	// Invalidate
	if err := store.Invalidate(ctx, key); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := store.Get(ctx, key); ok {
		t.Error("Get after Invalidate should return ok=false")
	}

	// Invalidate is idempotent
	if err := store.Invalidate(ctx, "nonexistent"); err != nil {
		t.Errorf("Invalidate on absent key should not error, got: %v", err)
	}
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	key := "calc:force:1"
	if err := store.Put(ctx, key, Value{Scalar: 1}, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A second Put under the same key must replace, never be ignored.
	if err := store.Put(ctx, key, Value{Scalar: 2}, time.Hour); err != nil {
		t.Fatalf("Put (replace) failed: %v", err)
	}

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("Get after replace should return ok=true")
	}
	if got.Scalar != 2 {
		t.Errorf("Get returned %v, want 2 (replacement was ignored)", got.Scalar)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestMemoryStore_PutNonFinite(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	tests := []struct {
		name  string
		value Value
	}{
		{"nan scalar", Value{Scalar: math.NaN()}},
		{"inf scalar", Value{Scalar: math.Inf(1)}},
		{"nan sample", Value{Scalar: 1, Samples: []float64{1, math.NaN()}, Elapsed: []float64{0, 1}}},
		{"inf elapsed", Value{Scalar: 1, Samples: []float64{1}, Elapsed: []float64{math.Inf(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Put(ctx, "calc:x:1", tt.value, time.Hour)
			if err != ErrInvalidValue {
				t.Errorf("Put = %v, want ErrInvalidValue", err)
			}
		})
	}

	if store.Len() != 0 {
		t.Errorf("rejected values must not be stored, Len = %d", store.Len())
	}
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	store := NewMemoryStore(Policy{Capacity: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("calc:k:%d", i)
		if err := store.Put(ctx, key, Value{Scalar: float64(i)}, 0); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// Touch k:0 so k:1 becomes the least recently used.
	if _, ok := store.Get(ctx, "calc:k:0"); !ok {
		t.Fatal("expected hit on calc:k:0")
	}

	// Inserting a fourth entry evicts k:1, never errors.
	if err := store.Put(ctx, "calc:k:3", Value{Scalar: 3}, 0); err != nil {
		t.Fatalf("Put at capacity failed: %v", err)
	}

	if _, ok := store.Get(ctx, "calc:k:1"); ok {
		t.Error("calc:k:1 should have been evicted as least recently used")
	}
	for _, key := range []string{"calc:k:0", "calc:k:2", "calc:k:3"} {
		if _, ok := store.Get(ctx, key); !ok {
			t.Errorf("%s should have survived eviction", key)
		}
	}
	if got := store.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	key := "calc:expiring:1"
	if err := store.Put(ctx, key, Value{Scalar: 7}, 50*time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, ok := store.Get(ctx, key); !ok {
		t.Error("Get immediately after Put should return ok=true")
	}

	time.Sleep(100 * time.Millisecond)

	// Lazy purge: expired entry must report a miss and be removed.
	if _, ok := store.Get(ctx, key); ok {
		t.Error("Get after expiry should return ok=false")
	}
	if store.Len() != 0 {
		t.Errorf("expired entry should have been purged, Len = %d", store.Len())
	}
}

func TestMemoryStore_AccessDoesNotExtendTTL(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	key := "calc:fixed-lifetime:1"
	if err := store.Put(ctx, key, Value{Scalar: 1}, 80*time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Repeated hits refresh recency, not the creation time.
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		store.Get(ctx, key)
	}
	time.Sleep(40 * time.Millisecond)

	if _, ok := store.Get(ctx, key); ok {
		t.Error("entry should expire relative to creation time despite recent accesses")
	}
}

func TestMemoryStore_NoTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(Policy{Capacity: 4})
	ctx := context.Background()

	if err := store.Put(ctx, "calc:pinned:1", Value{Scalar: 1}, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := store.Get(ctx, "calc:pinned:1"); !ok {
		t.Error("entry without TTL should not expire")
	}
}

func TestMemoryStore_JanitorSweep(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("calc:sweep:%d", i)
		if err := store.Put(ctx, key, Value{Scalar: float64(i)}, 30*time.Millisecond); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	store.StartJanitor(20 * time.Millisecond)
	time.Sleep(120 * time.Millisecond)

	// The sweep must purge without any access to the keys.
	if got := store.Len(); got != 0 {
		t.Errorf("janitor should have purged all expired entries, Len = %d", got)
	}
}

func TestMemoryStore_InvalidateAll(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("calc:reset:%d", i)
		if err := store.Put(ctx, key, Value{Scalar: float64(i)}, 0); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len after InvalidateAll = %d, want 0", store.Len())
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	key := "calc:trace:1"
	original := Value{Scalar: 3, Samples: []float64{1, 2, 3}, Elapsed: []float64{0, 1, 2}}
	if err := store.Put(ctx, key, original, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, _ := store.Get(ctx, key)
	got.Samples[0] = 999

	again, _ := store.Get(ctx, key)
	if again.Samples[0] != 1 {
		t.Error("mutating a returned value must not affect cached storage")
	}

	// The caller's slice must not alias cached storage either.
	original.Samples[1] = -999
	again, _ = store.Get(ctx, key)
	if again.Samples[1] != 2 {
		t.Error("mutating the Put argument must not affect cached storage")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(Policy{Capacity: 64})
	ctx := context.Background()

	const numGoroutines = 50
	const opsPerGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				key := fmt.Sprintf("calc:conc:%d", j%100)
				switch j % 4 {
				case 0, 1:
					_, _ = store.Get(ctx, key)
				case 2:
					_ = store.Put(ctx, key, Value{Scalar: float64(j)}, time.Minute)
				case 3:
					_ = store.Invalidate(ctx, key)
				}
			}
		}(i)
	}

	wg.Wait()
}

func TestMemoryStore_Stats(t *testing.T) {
	store := NewMemoryStore(DefaultPolicy())
	ctx := context.Background()

	store.Get(ctx, "calc:missing:1")
	_ = store.Put(ctx, "calc:present:1", Value{Scalar: 1}, 0)
	store.Get(ctx, "calc:present:1")

	stats := store.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

// Verify MemoryStore implements Store at compile time
var _ Store = (*MemoryStore)(nil)
