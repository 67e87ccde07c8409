// Package engine is the synchronous call surface of the numeric
// calculation and memoization engine.
//
// A caller supplies a Request (kind + ordered named parameters); the
// engine derives a cache key, serves hits from the calculation cache,
// and on a miss dispatches to the recurrence engine or the simulation
// stepper, stores the result, and returns it. Concurrent misses for the
// same key are collapsed so the underlying computation runs exactly
// once.
//
// The engine performs no I/O framing, authentication, or status
// mapping; parsing external input into a Request and serializing
// results back out belong to the calling layer.
package engine
