// Package numeric provides shared floating-point utilities for the
// calculation engine: finiteness checks, stable summation, and
// relative-tolerance comparison.
package numeric
