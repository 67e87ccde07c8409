package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/jonwraymond/calcops/numeric"
)

// Param is one named numeric parameter of a calculation request.
type Param struct {
	// Name identifies the parameter within its kind's signature.
	Name string

	// Value is the parameter's numeric value in the unit documented by
	// the kind's signature.
	Value float64
}

// Request is an immutable calculation request: a kind plus its ordered
// named parameters. Two requests with identical kind and parameter
// values derive equal cache keys and yield equal results.
type Request struct {
	// Kind selects the calculation.
	Kind Kind

	// Params are the kind's parameters, in signature order.
	Params []Param

	// Trace requests per-step detail for multi-step kinds. The full
	// trace is then cached in place of the aggregate-only artifact.
	Trace bool

	// NoCache bypasses the cache entirely: no lookup, no store.
	NoCache bool

	// TTL overrides the cache policy's default TTL for this request's
	// entry. Zero means use the default; the policy's maximum still
	// clamps it.
	TTL time.Duration
}

// NewRequest builds a request with parameters named from the kind's
// signature, in order. Extra or missing values are caught by Evaluate's
// validation.
func NewRequest(kind Kind, values ...float64) Request {
	specs := paramSpecs[kind]
	params := make([]Param, 0, len(values))
	for i, v := range values {
		name := fmt.Sprintf("arg%d", i)
		if i < len(specs) {
			name = specs[i].name
		}
		params = append(params, Param{Name: name, Value: v})
	}
	return Request{Kind: kind, Params: params}
}

// paramValues returns the ordered raw values for key derivation.
func (r Request) paramValues() []float64 {
	out := make([]float64, len(r.Params))
	for i, p := range r.Params {
		out[i] = p.Value
	}
	return out
}

// paramSpec describes one parameter of a kind's signature: its name,
// physical unit, and static range check. The check returns a
// description of the violated constraint, or "" when satisfied.
type paramSpec struct {
	name  string
	unit  string
	check func(v float64) string
}

func nonNegative(name string) func(float64) string {
	return func(v float64) string {
		if v < 0 {
			return name + " must be non-negative"
		}
		return ""
	}
}

func positive(name string) func(float64) string {
	return func(v float64) string {
		if v <= 0 {
			return name + " must be positive"
		}
		return ""
	}
}

func anyFinite(_ float64) string { return "" }

func count(name string) func(float64) string {
	return func(v float64) string {
		if v != math.Trunc(v) {
			return name + " must be an integer"
		}
		if v < 1 {
			return name + " must be at least 1"
		}
		return ""
	}
}

func index(name string) func(float64) string {
	return func(v float64) string {
		if v != math.Trunc(v) {
			return name + " must be an integer"
		}
		if v < 0 {
			return name + " must be non-negative"
		}
		return ""
	}
}

// paramSpecs defines each kind's signature: parameter order, units, and
// static range constraints. Work-bounding maxima are enforced
// separately against the engine's configuration.
var paramSpecs = map[Kind][]paramSpec{
	KindForce: {
		{name: "mass", unit: "kg", check: nonNegative("mass")},
		{name: "acceleration", unit: "m/s^2", check: anyFinite},
	},
	KindPotentialEnergy: {
		{name: "mass", unit: "kg", check: nonNegative("mass")},
		{name: "height", unit: "m", check: nonNegative("height")},
		{name: "steps", unit: "count", check: count("steps")},
	},
	KindElectricField: {
		{name: "charge", unit: "C", check: anyFinite},
		{name: "distance", unit: "m", check: positive("distance")},
	},
	KindFibonacciForce: {
		{name: "index", unit: "term index", check: index("index")},
	},
	KindFluidFlow: {
		{name: "max_velocity", unit: "m/s", check: nonNegative("max_velocity")},
		{name: "radius", unit: "m", check: positive("radius")},
		{name: "stations", unit: "count", check: count("stations")},
	},
	KindGravWave: {
		{name: "amplitude", unit: "strain", check: nonNegative("amplitude")},
		{name: "distance", unit: "normalized", check: positive("distance")},
		{name: "steps", unit: "count", check: count("steps")},
	},
}

// validate checks a request against its kind's signature and the
// engine's configured work bounds.
func (e *Engine) validate(req Request) error {
	const op = "evaluate"

	specs, ok := paramSpecs[req.Kind]
	if !ok {
		return &Error{Op: op, Kind: req.Kind, Constraint: "kind is not recognized", Cause: ErrUnknownKind}
	}
	if len(req.Params) != len(specs) {
		return invalidArgument(op, req.Kind,
			fmt.Sprintf("expects %d parameters, got %d", len(specs), len(req.Params)))
	}

	for i, spec := range specs {
		p := req.Params[i]
		if p.Name != spec.name {
			return invalidArgument(op, req.Kind,
				fmt.Sprintf("parameter %d must be %q (%s), got %q", i, spec.name, spec.unit, p.Name))
		}
		if !numeric.IsFinite(p.Value) {
			return invalidArgument(op, req.Kind, spec.name+" must be finite")
		}
		if msg := spec.check(p.Value); msg != "" {
			return invalidArgument(op, req.Kind, msg)
		}
	}

	// Work-bounding maxima from configuration.
	switch req.Kind {
	case KindFibonacciForce:
		if n := int(req.Params[0].Value); n > e.cfg.MaxRecurrenceIndex {
			return invalidArgument(op, req.Kind,
				fmt.Sprintf("index must be at most %d", e.cfg.MaxRecurrenceIndex))
		}
	case KindPotentialEnergy:
		if n := int(req.Params[2].Value); n > e.cfg.MaxSimulationSteps {
			return invalidArgument(op, req.Kind,
				fmt.Sprintf("steps must be at most %d", e.cfg.MaxSimulationSteps))
		}
	case KindFluidFlow:
		if n := int(req.Params[2].Value); n > e.cfg.MaxSimulationSteps {
			return invalidArgument(op, req.Kind,
				fmt.Sprintf("stations must be at most %d", e.cfg.MaxSimulationSteps))
		}
	case KindGravWave:
		if n := int(req.Params[2].Value); n > e.cfg.MaxSimulationSteps {
			return invalidArgument(op, req.Kind,
				fmt.Sprintf("steps must be at most %d", e.cfg.MaxSimulationSteps))
		}
	}

	return nil
}
