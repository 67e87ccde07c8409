package recurrence

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/calcops/numeric"
)

// Sentinel errors for recurrence operations.
var (
	ErrNegativeIndex = errors.New("recurrence: index must be non-negative")
	ErrIndexTooLarge = errors.New("recurrence: index exceeds configured maximum")
	ErrOverflow      = errors.New("recurrence: term is not finite")
)

// DefaultMaxIndex is the largest index whose Fibonacci term is still
// finite in float64. Beyond it every term overflows to +Inf.
const DefaultMaxIndex = 1476

// Engine computes Fibonacci-style force terms iteratively.
//
// Contract:
// - Concurrency: Engine is stateless and safe for concurrent use.
// - Determinism: identical n returns identical results regardless of
//   call order.
type Engine struct {
	maxIndex int
}

// New creates an Engine bounded at maxIndex. A non-positive maxIndex
// selects DefaultMaxIndex.
func New(maxIndex int) *Engine {
	if maxIndex <= 0 {
		maxIndex = DefaultMaxIndex
	}
	return &Engine{maxIndex: maxIndex}
}

// MaxIndex returns the configured index bound.
func (e *Engine) MaxIndex() int {
	return e.maxIndex
}

// checkIndex validates n against the engine's bounds.
func (e *Engine) checkIndex(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeIndex, n)
	}
	if n > e.maxIndex {
		return fmt.Errorf("%w: got %d, max %d", ErrIndexTooLarge, n, e.maxIndex)
	}
	return nil
}

// Term returns the n-th term of the sequence using forward iteration
// over the last two terms: O(n) time, O(1) auxiliary space.
func (e *Engine) Term(n int) (float64, error) {
	if err := e.checkIndex(n); err != nil {
		return 0, err
	}

	prev, curr := 0.0, 1.0
	if n == 0 {
		return prev, nil
	}
	for i := 2; i <= n; i++ {
		prev, curr = curr, prev+curr
	}
	if !numeric.IsFinite(curr) {
		return 0, fmt.Errorf("%w: index %d", ErrOverflow, n)
	}
	return curr, nil
}

// Sequence returns terms 0 through n inclusive: O(n) time and space.
func (e *Engine) Sequence(n int) ([]float64, error) {
	if err := e.checkIndex(n); err != nil {
		return nil, err
	}

	terms := make([]float64, n+1)
	terms[0] = 0
	if n >= 1 {
		terms[1] = 1
	}
	for i := 2; i <= n; i++ {
		terms[i] = terms[i-1] + terms[i-2]
		if !numeric.IsFinite(terms[i]) {
			return nil, fmt.Errorf("%w: index %d", ErrOverflow, i)
		}
	}
	return terms, nil
}

// extend grows a computed prefix of the sequence in place up to index n.
// The input must hold at least terms 0 and 1.
func extend(terms []float64, n int) ([]float64, error) {
	for i := len(terms); i <= n; i++ {
		next := terms[i-1] + terms[i-2]
		if !numeric.IsFinite(next) {
			return nil, fmt.Errorf("%w: index %d", ErrOverflow, i)
		}
		terms = append(terms, next)
	}
	return terms, nil
}
