package simulate

import (
	"context"
	"fmt"

	"github.com/jonwraymond/calcops/numeric"
)

// Physical constants.
const (
	// StandardGravity is g in m/s^2.
	StandardGravity = 9.80665

	// CoulombConstant is k in N*m^2/C^2.
	CoulombConstant = 8.9875517873681764e9
)

// DefaultMaxSteps bounds per-run work when the stepper is constructed
// with a non-positive maximum.
const DefaultMaxSteps = 1_000_000

// DefaultTolerance is the relative tolerance accumulation-style results
// are documented to satisfy. Long forward float64 sums are inherently
// lossy; exactness is not promised.
const DefaultTolerance = 1e-9

// Stepper runs fixed-iteration numeric models.
//
// Contract:
// - Concurrency: Stepper is stateless and safe for concurrent use.
// - Context: Run methods honor cancellation between steps.
// - Errors: a non-finite intermediate aborts with *OverflowError.
type Stepper struct {
	maxSteps int
}

// New creates a Stepper bounded at maxSteps per run. A non-positive
// maxSteps selects DefaultMaxSteps.
func New(maxSteps int) *Stepper {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Stepper{maxSteps: maxSteps}
}

// MaxSteps returns the configured per-run step bound.
func (s *Stepper) MaxSteps() int {
	return s.maxSteps
}

// Run is the outcome of a simulation: the final or aggregate value and,
// when requested, the full per-step trace.
type Run struct {
	Model     string
	Aggregate float64
	Trace     *Trace // nil unless the caller asked for per-step detail
}

// checkSteps validates a step count against the stepper's bounds.
func (s *Stepper) checkSteps(steps int) error {
	if steps < 1 {
		return fmt.Errorf("%w: got %d", ErrZeroSteps, steps)
	}
	if steps > s.maxSteps {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManySteps, steps, s.maxSteps)
	}
	return nil
}

// checkCtx polls for cancellation between steps.
func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// PotentialEnergyParams parameterizes a lift of a mass through a height
// in equal increments.
type PotentialEnergyParams struct {
	Mass   float64 // kg, >= 0
	Height float64 // m, >= 0
	Steps  int     // increment count, >= 1
	Trace  bool    // capture per-step cumulative energy
}

// PotentialEnergy computes the potential energy gained lifting Mass
// through Height. The per-step quantity is the same constant for every
// step, so the aggregate collapses the repeated addition into a single
// multiplication: m * g * h. The trace path, when requested, performs
// the per-step accumulation; its final sample agrees with the collapsed
// aggregate to the documented relative tolerance.
func (s *Stepper) PotentialEnergy(ctx context.Context, p PotentialEnergyParams) (*Run, error) {
	if err := s.checkSteps(p.Steps); err != nil {
		return nil, err
	}
	if !numeric.IsFinite(p.Mass) || p.Mass < 0 {
		return nil, fmt.Errorf("%w: mass must be finite and non-negative", ErrInvalidParam)
	}
	if !numeric.IsFinite(p.Height) || p.Height < 0 {
		return nil, fmt.Errorf("%w: height must be finite and non-negative", ErrInvalidParam)
	}

	run := &Run{Model: "potential_energy"}

	// Collapsed form: the step-independent repeated addition is a
	// single multiplication.
	run.Aggregate = p.Mass * StandardGravity * p.Height
	if !numeric.IsFinite(run.Aggregate) {
		return nil, &OverflowError{Model: run.Model, Step: 0, LastValid: -1}
	}

	if !p.Trace {
		return run, nil
	}

	// Hoisted invariants: per-step height and energy increments depend
	// only on the parameters.
	dh := p.Height / float64(p.Steps)
	dE := p.Mass * StandardGravity * dh

	trace := newTrace(p.Steps)
	total := 0.0
	for i := 0; i < p.Steps; i++ {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		total += dE
		if !numeric.IsFinite(total) {
			return nil, &OverflowError{Model: run.Model, Step: i, LastValid: i - 1}
		}
		trace.add(i, dh*float64(i+1), total)
	}
	run.Trace = trace
	return run, nil
}

// FluidFlowParams parameterizes a laminar pipe-flow velocity profile
// sampled at evenly spaced radial stations from the center outward.
type FluidFlowParams struct {
	MaxVelocity float64 // m/s at the pipe center, >= 0
	Radius      float64 // m, > 0
	Stations    int     // radial sample count, >= 1
	Trace       bool    // capture the per-station profile
}

// FluidFlow computes the parabolic velocity profile
// v(r) = vmax * (1 - (r/R)^2) at Stations radial positions and returns
// the mean velocity as the aggregate. 1/R^2 is hoisted out of the loop;
// only the station radius varies per iteration.
func (s *Stepper) FluidFlow(ctx context.Context, p FluidFlowParams) (*Run, error) {
	if err := s.checkSteps(p.Stations); err != nil {
		return nil, err
	}
	if !numeric.IsFinite(p.MaxVelocity) || p.MaxVelocity < 0 {
		return nil, fmt.Errorf("%w: max velocity must be finite and non-negative", ErrInvalidParam)
	}
	if !numeric.IsFinite(p.Radius) || p.Radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be finite and positive", ErrInvalidParam)
	}

	run := &Run{Model: "fluid_flow"}

	// Hoisted invariants.
	invR2 := 1 / (p.Radius * p.Radius)
	dr := 0.0
	if p.Stations > 1 {
		dr = p.Radius / float64(p.Stations-1)
	}

	var trace *Trace
	if p.Trace {
		trace = newTrace(p.Stations)
	}

	velocities := make([]float64, 0, p.Stations)
	for i := 0; i < p.Stations; i++ {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		r := dr * float64(i)
		v := p.MaxVelocity * (1 - r*r*invR2)
		if !numeric.IsFinite(v) {
			return nil, &OverflowError{Model: run.Model, Step: i, LastValid: i - 1}
		}
		velocities = append(velocities, v)
		if trace != nil {
			trace.add(i, r, v)
		}
	}

	run.Aggregate = numeric.SumForward(velocities) / float64(p.Stations)
	if !numeric.IsFinite(run.Aggregate) {
		return nil, &OverflowError{Model: run.Model, Step: p.Stations - 1, LastValid: p.Stations - 1}
	}
	run.Trace = trace
	return run, nil
}

// GravWaveParams parameterizes a gravitational-wave-strength
// accumulation over a fixed number of steps.
type GravWaveParams struct {
	Amplitude float64 // dimensionless strain amplitude, >= 0
	Distance  float64 // normalized source distance, > 0
	Steps     int     // accumulation steps, >= 1
	Trace     bool    // capture the per-step running total
}

// GravWave accumulates amplitude / (distance*i + 1) for i in
// [0, Steps), summed forward from the smallest index. The result is
// accurate to the documented relative tolerance; repeated floating-point
// accumulation is inherently lossy and exactness is not promised.
func (s *Stepper) GravWave(ctx context.Context, p GravWaveParams) (*Run, error) {
	if err := s.checkSteps(p.Steps); err != nil {
		return nil, err
	}
	if !numeric.IsFinite(p.Amplitude) || p.Amplitude < 0 {
		return nil, fmt.Errorf("%w: amplitude must be finite and non-negative", ErrInvalidParam)
	}
	if !numeric.IsFinite(p.Distance) || p.Distance <= 0 {
		return nil, fmt.Errorf("%w: distance must be finite and positive", ErrInvalidParam)
	}

	run := &Run{Model: "gravitational_wave"}

	var trace *Trace
	if p.Trace {
		trace = newTrace(p.Steps)
	}

	// Forward, smallest-index-first accumulation order is part of the
	// determinism contract.
	total := 0.0
	for i := 0; i < p.Steps; i++ {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		term := p.Amplitude / (p.Distance*float64(i) + 1)
		total += term
		if !numeric.IsFinite(total) {
			return nil, &OverflowError{Model: run.Model, Step: i, LastValid: i - 1}
		}
		if trace != nil {
			trace.add(i, float64(i), total)
		}
	}

	run.Aggregate = total
	run.Trace = trace
	return run, nil
}
