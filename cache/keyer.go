package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/jonwraymond/calcops/numeric"
)

// Keyer derives deterministic cache keys from a calculation kind and its
// ordered parameter values.
//
// Contract:
// - Determinism: identical kind and parameter values must produce the
//   same key across calls and processes (value equality, not identity).
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives a cache key from a kind name and ordered parameters.
	Key(kind string, params []float64) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys over the exact IEEE-754
// bit patterns of the parameters, so two requests are key-equal exactly
// when their float64 values are bit-equal.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key derives a deterministic cache key.
// Format: calc:<kind>:<hash>
// where hash is the first 16 hex characters of
// SHA-256(kind || Float64bits(param_0) || ... || Float64bits(param_n-1)).
func (k *DefaultKeyer) Key(kind string, params []float64) (string, error) {
	if kind == "" {
		return "", ErrInvalidKey
	}
	if !numeric.AllFinite(params) {
		return "", fmt.Errorf("cache: non-finite parameter: %w", ErrInvalidKey)
	}

	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0}) // separator between kind and parameters

	var buf [8]byte
	for _, p := range params {
		if p == 0 {
			p = 0 // fold negative zero: -0.0 == 0.0 must key identically
		}
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(p))
		h.Write(buf[:])
	}

	sum := h.Sum(nil)
	return fmt.Sprintf("calc:%s:%s", kind, hex.EncodeToString(sum[:8])), nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
