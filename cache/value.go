package cache

import "github.com/jonwraymond/calcops/numeric"

// Value is a cached calculation artifact: a scalar result, optionally
// accompanied by per-step samples and their elapsed quantities when the
// caller asked for a full simulation trace.
type Value struct {
	// Scalar is the final or aggregate result.
	Scalar float64

	// Samples holds per-step computed values. Nil when only the
	// aggregate was cached.
	Samples []float64

	// Elapsed holds the per-step elapsed quantity matching Samples
	// index for index. Nil when no elapsed axis applies.
	Elapsed []float64
}

// Finite reports whether the scalar and every sample are finite.
func (v Value) Finite() bool {
	return numeric.IsFinite(v.Scalar) &&
		numeric.AllFinite(v.Samples) &&
		numeric.AllFinite(v.Elapsed)
}

// Clone returns a deep copy of the value. Sample slices are copied so
// callers cannot mutate cached storage.
func (v Value) Clone() Value {
	out := Value{Scalar: v.Scalar}
	if v.Samples != nil {
		out.Samples = make([]float64, len(v.Samples))
		copy(out.Samples, v.Samples)
	}
	if v.Elapsed != nil {
		out.Elapsed = make([]float64, len(v.Elapsed))
		copy(out.Elapsed, v.Elapsed)
	}
	return out
}
