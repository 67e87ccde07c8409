// Package simulate runs fixed-iteration numeric models: potential
// energy, fluid-flow velocity profiles, and gravitational-wave-strength
// accumulation.
//
// Every sub-expression that depends only on the request parameters is
// computed once before the step loop; only step-dependent terms are
// recomputed per iteration. Accumulation-style results use forward,
// smallest-index-first summation and are accurate to a documented
// relative tolerance (1e-9 by default) rather than exact.
package simulate
