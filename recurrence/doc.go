// Package recurrence computes sequence-defined quantities, such as
// Fibonacci-style force terms, by bounded forward iteration.
//
// There is no recursion anywhere in this package: the index bound is a
// structural property of the iterative computation, not a guard in front
// of a recursive one.
package recurrence
