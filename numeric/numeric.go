package numeric

import "math"

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every value in xs is finite.
func AllFinite(xs []float64) bool {
	for _, x := range xs {
		if !IsFinite(x) {
			return false
		}
	}
	return true
}

// SumForward accumulates xs in index order, smallest index first.
// Accumulation order is part of the contract: callers that document a
// relative tolerance rely on it being deterministic.
func SumForward(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum
}

// SumKahan accumulates xs with Kahan compensation, reducing the error
// growth of long forward sums from O(n) to O(1) ulps.
func SumKahan(xs []float64) float64 {
	sum := 0.0
	comp := 0.0
	for _, x := range xs {
		y := x - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	return sum
}

// RelativeError returns |a-b| scaled by the larger magnitude of the two.
// Returns 0 when both values are zero.
func RelativeError(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff == 0 {
		return 0
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return diff / scale
}

// WithinTolerance reports whether a and b agree to the given relative
// tolerance. Non-finite inputs never agree.
func WithinTolerance(a, b, tol float64) bool {
	if !IsFinite(a) || !IsFinite(b) {
		return false
	}
	return RelativeError(a, b) <= tol
}
