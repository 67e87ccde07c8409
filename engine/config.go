package engine

import (
	"errors"
	"time"

	"github.com/jonwraymond/calcops/numeric"
	"github.com/jonwraymond/calcops/observe"
	"github.com/jonwraymond/calcops/recurrence"
	"github.com/jonwraymond/calcops/simulate"
)

// Configuration errors.
var (
	ErrNegativeCapacity = errors.New("engine: cache capacity must not be negative")
	ErrInvalidTolerance = errors.New("engine: tolerance must be a finite non-negative value")
	ErrNegativeMaxSteps = errors.New("engine: max simulation steps must not be negative")
	ErrNegativeMaxIndex = errors.New("engine: max recurrence index must not be negative")
)

// Config supplies the engine's construction-time parameters. The engine
// reads but never mutates it after construction.
type Config struct {
	// CacheCapacity bounds the calculation cache entry count.
	// Zero selects the cache package default.
	CacheCapacity int

	// DefaultTTL applies to cached entries without a per-request
	// override. Zero means entries do not expire on their own.
	DefaultTTL time.Duration

	// MaxTTL clamps per-request TTL overrides. Zero means no clamp.
	MaxTTL time.Duration

	// MaxRecurrenceIndex bounds FIBONACCI_FORCE indices. Zero selects
	// the recurrence package default.
	MaxRecurrenceIndex int

	// MaxSimulationSteps bounds per-run step counts. Zero selects the
	// simulate package default.
	MaxSimulationSteps int

	// Tolerance is the documented relative tolerance for
	// accumulation-style results. Zero selects the simulate package
	// default. It is a tunable, not a hard-coded constant.
	Tolerance float64

	// JanitorInterval enables the cache's periodic expired-entry sweep
	// when positive. Zero disables the sweep; lazy purge still applies.
	JanitorInterval time.Duration

	// Observer supplies telemetry. Nil means no telemetry.
	Observer observe.Observer
}

// DefaultConfig returns a configuration with every tunable at its
// package default.
func DefaultConfig() Config {
	return Config{
		CacheCapacity:      1024,
		DefaultTTL:         5 * time.Minute,
		MaxTTL:             time.Hour,
		MaxRecurrenceIndex: recurrence.DefaultMaxIndex,
		MaxSimulationSteps: simulate.DefaultMaxSteps,
		Tolerance:          simulate.DefaultTolerance,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CacheCapacity < 0 {
		return ErrNegativeCapacity
	}
	if c.MaxSimulationSteps < 0 {
		return ErrNegativeMaxSteps
	}
	if c.MaxRecurrenceIndex < 0 {
		return ErrNegativeMaxIndex
	}
	if c.Tolerance < 0 || !numeric.IsFinite(c.Tolerance) {
		return ErrInvalidTolerance
	}
	return nil
}

// withDefaults fills zero values with package defaults.
func (c Config) withDefaults() Config {
	if c.MaxRecurrenceIndex == 0 {
		c.MaxRecurrenceIndex = recurrence.DefaultMaxIndex
	}
	if c.MaxSimulationSteps == 0 {
		c.MaxSimulationSteps = simulate.DefaultMaxSteps
	}
	if c.Tolerance == 0 {
		c.Tolerance = simulate.DefaultTolerance
	}
	return c
}
