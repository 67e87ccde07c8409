package simulate

// Sample is one per-step observation of a simulation run.
type Sample struct {
	// Step is the zero-based step index.
	Step int

	// Elapsed is the model's elapsed quantity at this step: lifted
	// height for potential energy, radial position for fluid flow,
	// step count for wave accumulation.
	Elapsed float64

	// Value is the computed value at this step.
	Value float64
}

// Trace is an ordered sequence of per-step samples. It is produced
// fresh per request; callers own it outright.
type Trace struct {
	Samples []Sample
}

// newTrace allocates a trace sized for n samples.
func newTrace(n int) *Trace {
	return &Trace{Samples: make([]Sample, 0, n)}
}

// add appends a sample.
func (t *Trace) add(step int, elapsed, value float64) {
	t.Samples = append(t.Samples, Sample{Step: step, Elapsed: elapsed, Value: value})
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Samples)
}

// Values returns the per-step computed values as one column.
func (t *Trace) Values() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Value
	}
	return out
}

// ElapsedAxis returns the per-step elapsed quantities as one column.
func (t *Trace) ElapsedAxis() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Elapsed
	}
	return out
}

// TraceFromColumns rebuilds a trace from separately stored value and
// elapsed columns, e.g. after a cache round trip. The shorter column
// bounds the result.
func TraceFromColumns(values, elapsed []float64) *Trace {
	n := len(values)
	if len(elapsed) < n {
		n = len(elapsed)
	}
	t := newTrace(n)
	for i := 0; i < n; i++ {
		t.add(i, elapsed[i], values[i])
	}
	return t
}
