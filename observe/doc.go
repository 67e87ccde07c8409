// Package observe provides observability primitives for calculation
// evaluation.
//
// It is a pure instrumentation library: no computation, no transport,
// no I/O beyond exporter setup. Consumers wire the observer into the
// engine at construction.
package observe
