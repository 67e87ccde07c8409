package simulate

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/jonwraymond/calcops/numeric"
)

func TestStepper_PotentialEnergy(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	mass, height := 10.0, 5.0
	run, err := s.PotentialEnergy(ctx, PotentialEnergyParams{Mass: mass, Height: height, Steps: 100})
	if err != nil {
		t.Fatalf("PotentialEnergy failed: %v", err)
	}

	want := mass * StandardGravity * height
	if run.Aggregate != want {
		t.Errorf("Aggregate = %v, want %v", run.Aggregate, want)
	}
	if run.Trace != nil {
		t.Error("Trace should be nil unless requested")
	}
}

// TestStepper_CollapsedLoopEquivalence verifies the required
// optimization: the collapsed single multiplication equals the naive
// repeated accumulation within tolerance for randomized inputs.
func TestStepper_CollapsedLoopEquivalence(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	const pairs = 10000
	for i := 0; i < pairs; i++ {
		mass := rng.Float64() * 1000
		height := rng.Float64() * 100
		steps := 1 + rng.Intn(500)

		run, err := s.PotentialEnergy(ctx, PotentialEnergyParams{
			Mass:   mass,
			Height: height,
			Steps:  steps,
			Trace:  true,
		})
		if err != nil {
			t.Fatalf("PotentialEnergy(mass=%v height=%v steps=%d) failed: %v", mass, height, steps, err)
		}

		// Naive repeated accumulation, as the unoptimized loop would do.
		dE := mass * StandardGravity * (height / float64(steps))
		naive := 0.0
		for j := 0; j < steps; j++ {
			naive += dE
		}

		if !numeric.WithinTolerance(run.Aggregate, naive, DefaultTolerance) {
			t.Fatalf("collapsed %v vs naive %v exceeds tolerance (mass=%v height=%v steps=%d)",
				run.Aggregate, naive, mass, height, steps)
		}

		// The trace's final cumulative sample is the naive path.
		last := run.Trace.Samples[run.Trace.Len()-1]
		if !numeric.WithinTolerance(run.Aggregate, last.Value, DefaultTolerance) {
			t.Fatalf("trace final %v vs aggregate %v exceeds tolerance", last.Value, run.Aggregate)
		}
	}
}

func TestStepper_PotentialEnergy_Trace(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	run, err := s.PotentialEnergy(ctx, PotentialEnergyParams{Mass: 2, Height: 10, Steps: 4, Trace: true})
	if err != nil {
		t.Fatalf("PotentialEnergy failed: %v", err)
	}
	if run.Trace.Len() != 4 {
		t.Fatalf("Trace length = %d, want 4", run.Trace.Len())
	}

	// Cumulative energy grows monotonically; elapsed height reaches the top.
	prev := 0.0
	for _, sample := range run.Trace.Samples {
		if sample.Value <= prev {
			t.Errorf("cumulative energy should increase, step %d: %v <= %v", sample.Step, sample.Value, prev)
		}
		prev = sample.Value
	}
	final := run.Trace.Samples[3]
	if !numeric.WithinTolerance(final.Elapsed, 10, DefaultTolerance) {
		t.Errorf("final elapsed height = %v, want 10", final.Elapsed)
	}
}

func TestStepper_FluidFlow(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	run, err := s.FluidFlow(ctx, FluidFlowParams{MaxVelocity: 2, Radius: 1, Stations: 5, Trace: true})
	if err != nil {
		t.Fatalf("FluidFlow failed: %v", err)
	}
	if run.Trace.Len() != 5 {
		t.Fatalf("Trace length = %d, want 5", run.Trace.Len())
	}

	// Center station moves at vmax, wall station at zero.
	if got := run.Trace.Samples[0].Value; got != 2 {
		t.Errorf("center velocity = %v, want 2", got)
	}
	if got := run.Trace.Samples[4].Value; math.Abs(got) > 1e-12 {
		t.Errorf("wall velocity = %v, want 0", got)
	}

	// Profile decreases monotonically from center to wall.
	for i := 1; i < run.Trace.Len(); i++ {
		if run.Trace.Samples[i].Value >= run.Trace.Samples[i-1].Value {
			t.Errorf("velocity should decrease outward, station %d", i)
		}
	}

	if run.Aggregate <= 0 || run.Aggregate >= 2 {
		t.Errorf("mean velocity = %v, want within (0, vmax)", run.Aggregate)
	}
}

func TestStepper_FluidFlow_SingleStation(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	run, err := s.FluidFlow(ctx, FluidFlowParams{MaxVelocity: 3, Radius: 0.5, Stations: 1})
	if err != nil {
		t.Fatalf("FluidFlow failed: %v", err)
	}
	if run.Aggregate != 3 {
		t.Errorf("single-station aggregate = %v, want vmax", run.Aggregate)
	}
}

func TestStepper_GravWave(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	run, err := s.GravWave(ctx, GravWaveParams{Amplitude: 1, Distance: 1, Steps: 3, Trace: true})
	if err != nil {
		t.Fatalf("GravWave failed: %v", err)
	}

	// 1/1 + 1/2 + 1/3
	want := 1.0 + 0.5 + 1.0/3.0
	if !numeric.WithinTolerance(run.Aggregate, want, DefaultTolerance) {
		t.Errorf("Aggregate = %v, want %v", run.Aggregate, want)
	}

	// Running totals are cumulative.
	if got := run.Trace.Samples[0].Value; got != 1 {
		t.Errorf("step 0 running total = %v, want 1", got)
	}
	if got := run.Trace.Samples[2].Value; got != run.Aggregate {
		t.Errorf("final running total = %v, want aggregate %v", got, run.Aggregate)
	}
}

func TestStepper_GravWave_Deterministic(t *testing.T) {
	s := New(0)
	ctx := context.Background()
	p := GravWaveParams{Amplitude: 1.5e-21, Distance: 410, Steps: 50000}

	first, err := s.GravWave(ctx, p)
	if err != nil {
		t.Fatalf("GravWave failed: %v", err)
	}
	second, err := s.GravWave(ctx, p)
	if err != nil {
		t.Fatalf("GravWave failed: %v", err)
	}
	if math.Float64bits(first.Aggregate) != math.Float64bits(second.Aggregate) {
		t.Errorf("fixed accumulation order must be bit-reproducible: %v vs %v",
			first.Aggregate, second.Aggregate)
	}
}

func TestStepper_StepBounds(t *testing.T) {
	s := New(1000)
	ctx := context.Background()

	if _, err := s.GravWave(ctx, GravWaveParams{Amplitude: 1, Distance: 1, Steps: 0}); !errors.Is(err, ErrZeroSteps) {
		t.Errorf("zero steps = %v, want ErrZeroSteps", err)
	}
	if _, err := s.GravWave(ctx, GravWaveParams{Amplitude: 1, Distance: 1, Steps: 1001}); !errors.Is(err, ErrTooManySteps) {
		t.Errorf("excess steps = %v, want ErrTooManySteps", err)
	}
	if _, err := s.PotentialEnergy(ctx, PotentialEnergyParams{Mass: 1, Height: 1, Steps: -5}); !errors.Is(err, ErrZeroSteps) {
		t.Errorf("negative steps = %v, want ErrZeroSteps", err)
	}
}

func TestStepper_InvalidParams(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
	}{
		{"negative mass", func() error {
			_, err := s.PotentialEnergy(ctx, PotentialEnergyParams{Mass: -1, Height: 1, Steps: 1})
			return err
		}},
		{"nan height", func() error {
			_, err := s.PotentialEnergy(ctx, PotentialEnergyParams{Mass: 1, Height: math.NaN(), Steps: 1})
			return err
		}},
		{"zero radius", func() error {
			_, err := s.FluidFlow(ctx, FluidFlowParams{MaxVelocity: 1, Radius: 0, Stations: 1})
			return err
		}},
		{"negative amplitude", func() error {
			_, err := s.GravWave(ctx, GravWaveParams{Amplitude: -1, Distance: 1, Steps: 1})
			return err
		}},
		{"zero distance", func() error {
			_, err := s.GravWave(ctx, GravWaveParams{Amplitude: 1, Distance: 0, Steps: 1})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidParam) {
				t.Errorf("got %v, want ErrInvalidParam", err)
			}
		})
	}
}

func TestStepper_Overflow(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	// mass * g * height overflows float64.
	_, err := s.PotentialEnergy(ctx, PotentialEnergyParams{Mass: 1e308, Height: 1e10, Steps: 1})
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("got %v, want ErrOverflow", err)
	}

	var ovf *OverflowError
	if !errors.As(err, &ovf) {
		t.Fatal("error should be an *OverflowError")
	}
	if ovf.LastValid != -1 {
		t.Errorf("LastValid = %d, want -1", ovf.LastValid)
	}
}

func TestStepper_Cancellation(t *testing.T) {
	s := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GravWave(ctx, GravWaveParams{Amplitude: 1, Distance: 1, Steps: 100000})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestScalar_Force(t *testing.T) {
	mass, accel := 10.0, 9.81
	got, err := Force(mass, accel)
	if err != nil {
		t.Fatalf("Force failed: %v", err)
	}
	if want := mass * accel; got != want {
		t.Errorf("Force(10, 9.81) = %v, want %v", got, want)
	}

	if _, err := Force(-1, 1); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("negative mass = %v, want ErrInvalidParam", err)
	}
	if _, err := Force(1e308, 1e308); !errors.Is(err, ErrOverflow) {
		t.Errorf("overflowing force = %v, want ErrOverflow", err)
	}
}

func TestScalar_ElectricField(t *testing.T) {
	got, err := ElectricField(1e-6, 0.5)
	if err != nil {
		t.Fatalf("ElectricField failed: %v", err)
	}
	want := CoulombConstant * 1e-6 / 0.25
	if !numeric.WithinTolerance(got, want, DefaultTolerance) {
		t.Errorf("ElectricField = %v, want %v", got, want)
	}

	if _, err := ElectricField(1, 0); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("zero distance = %v, want ErrInvalidParam", err)
	}
}

func TestTraceFromColumns_RoundTrip(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	run, err := s.GravWave(ctx, GravWaveParams{Amplitude: 2, Distance: 3, Steps: 10, Trace: true})
	if err != nil {
		t.Fatalf("GravWave failed: %v", err)
	}

	rebuilt := TraceFromColumns(run.Trace.Values(), run.Trace.ElapsedAxis())
	if rebuilt.Len() != run.Trace.Len() {
		t.Fatalf("rebuilt length = %d, want %d", rebuilt.Len(), run.Trace.Len())
	}
	for i, sample := range rebuilt.Samples {
		orig := run.Trace.Samples[i]
		if sample != orig {
			t.Errorf("sample %d = %+v, want %+v", i, sample, orig)
		}
	}
}

func BenchmarkStepper_GravWave(b *testing.B) {
	s := New(0)
	ctx := context.Background()
	p := GravWaveParams{Amplitude: 1e-21, Distance: 410, Steps: 10000}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.GravWave(ctx, p)
	}
}
