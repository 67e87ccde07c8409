package engine

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/calcops/cache"
	"github.com/jonwraymond/calcops/observe"
	"github.com/jonwraymond/calcops/recurrence"
	"github.com/jonwraymond/calcops/simulate"
)

// Result is the outcome of one Evaluate call. The caller owns it
// outright; mutating it never affects cached state.
type Result struct {
	// Kind echoes the request's calculation kind.
	Kind Kind

	// Value is the final or aggregate result.
	Value float64

	// Trace holds per-step detail when the request asked for it.
	Trace *simulate.Trace

	// Cached reports whether the result was served from the cache.
	Cached bool
}

// Engine evaluates calculation requests against a bounded result cache.
//
// Contract:
// - Concurrency: safe for concurrent use by independent callers; at
//   most one computation per cache key is in flight at a time.
// - Context: an abandoning caller gets ctx.Err() while the in-flight
//   computation runs to completion and populates the cache.
// - Errors: failures are *Error values wrapping the sentinel taxonomy;
//   a failed computation never populates the cache.
type Engine struct {
	cfg     Config
	policy  cache.Policy
	store   *cache.MemoryStore
	keyer   cache.Keyer
	fib     *recurrence.Engine
	memo    *recurrence.Memo
	stepper *simulate.Stepper

	sf      singleflight.Group
	logger  observe.Logger
	tracer  observe.Tracer
	metrics observe.Metrics

	// compute is the dispatch seam; tests wrap it to count invocations.
	compute func(ctx context.Context, req Request) (cache.Value, error)
}

// New creates an Engine from cfg. Zero-valued tunables take package
// defaults; the configuration is read-only afterwards.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	policy := cache.Policy{
		Capacity:   cfg.CacheCapacity,
		DefaultTTL: cfg.DefaultTTL,
		MaxTTL:     cfg.MaxTTL,
	}
	store := cache.NewMemoryStore(policy)
	store.StartJanitor(cfg.JanitorInterval)

	keyer := cache.NewDefaultKeyer()
	fib := recurrence.New(cfg.MaxRecurrenceIndex)
	memo, err := recurrence.NewMemo(fib, store, keyer)
	if err != nil {
		return nil, err
	}

	obs := cfg.Observer
	if obs == nil {
		obs = observe.Noop()
	}
	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		policy:  policy,
		store:   store,
		keyer:   keyer,
		fib:     fib,
		memo:    memo,
		stepper: simulate.New(cfg.MaxSimulationSteps),
		logger:  obs.Logger(),
		tracer:  observe.NewTracer(obs.Tracer()),
		metrics: metrics,
	}
	e.compute = e.dispatch
	return e, nil
}

// Tolerance returns the configured relative tolerance documented for
// accumulation-style results.
func (e *Engine) Tolerance() float64 {
	return e.cfg.Tolerance
}

// Close stops the cache janitor. The engine remains usable; only the
// periodic sweep ends.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Evaluate is the engine's sole computation entry point: it resolves
// the cache and dispatches to the recurrence engine or simulation
// stepper as appropriate.
func (e *Engine) Evaluate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	meta := observe.CalcMeta{Kind: req.Kind.String()}

	result, err := e.evaluate(ctx, req, &meta)

	e.metrics.RecordEvaluation(ctx, meta, time.Since(start), err)
	return result, err
}

func (e *Engine) evaluate(ctx context.Context, req Request, meta *observe.CalcMeta) (Result, error) {
	if err := e.validate(req); err != nil {
		return Result{}, err
	}

	key, err := e.keyer.Key(req.Kind.String(), req.paramValues())
	if err != nil {
		// Parameters were validated finite; a key failure here is a
		// malformed request slipping past validation.
		return Result{}, &Error{Op: "evaluate", Kind: req.Kind, Constraint: "cache key derivation failed", Cause: errors.Join(ErrInvalidArgument, err)}
	}
	meta.CacheKey = key

	if !req.NoCache {
		if v, ok := e.store.Get(ctx, key); ok && (!req.Trace || v.Samples != nil) {
			meta.Cached = true
			return e.resultFrom(req, v, true), nil
		}
	}

	// Collapse concurrent misses: exactly one computation per key (and
	// per trace granularity) is in flight; the rest await its result.
	flightKey := key
	if req.Trace {
		flightKey += "#trace"
	}
	ch := e.sf.DoChan(flightKey, func() (any, error) {
		// Detach from the calling context: an abandoning caller must
		// not cancel the computation for the waiters behind it.
		cctx := context.WithoutCancel(ctx)

		cctx, span := e.tracer.StartSpan(cctx, *meta)
		v, err := e.compute(cctx, req)
		if err == nil && !req.NoCache {
			if putErr := e.store.Put(cctx, key, v, e.policy.EffectiveTTL(req.TTL)); putErr != nil {
				err = &Error{Op: "evaluate", Kind: req.Kind, Constraint: "computed value is not finite", Cause: ErrInvalidValue}
			}
		}
		e.tracer.EndSpan(span, err)
		if err != nil {
			e.logger.WithCalc(*meta).Error(cctx, "computation failed", observe.Field{Key: "error", Value: err.Error()})
			return nil, err
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		// The computation keeps running for the other waiters.
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		// Waiters share the flight's value; hand out copies only.
		return e.resultFrom(req, res.Val.(cache.Value).Clone(), false), nil
	}
}

// resultFrom shapes a cache value into a caller-owned Result.
func (e *Engine) resultFrom(req Request, v cache.Value, cached bool) Result {
	out := Result{Kind: req.Kind, Value: v.Scalar, Cached: cached}
	if req.Trace && v.Samples != nil {
		out.Trace = simulate.TraceFromColumns(v.Samples, v.Elapsed)
	}
	return out
}

// dispatch routes a validated request to its computation.
func (e *Engine) dispatch(ctx context.Context, req Request) (cache.Value, error) {
	p := req.paramValues()

	switch req.Kind {
	case KindForce:
		f, err := simulate.Force(p[0], p[1])
		if err != nil {
			return cache.Value{}, e.wrapComputeErr(req.Kind, err)
		}
		return cache.Value{Scalar: f}, nil

	case KindElectricField:
		f, err := simulate.ElectricField(p[0], p[1])
		if err != nil {
			return cache.Value{}, e.wrapComputeErr(req.Kind, err)
		}
		return cache.Value{Scalar: f}, nil

	case KindFibonacciForce:
		n := int(p[0])
		if req.Trace {
			terms, err := e.fib.Sequence(n)
			if err != nil {
				return cache.Value{}, e.wrapComputeErr(req.Kind, err)
			}
			elapsed := make([]float64, len(terms))
			for i := range elapsed {
				elapsed[i] = float64(i)
			}
			return cache.Value{Scalar: terms[n], Samples: terms, Elapsed: elapsed}, nil
		}
		term, err := e.memo.Term(ctx, n)
		if err != nil {
			return cache.Value{}, e.wrapComputeErr(req.Kind, err)
		}
		return cache.Value{Scalar: term}, nil

	case KindPotentialEnergy:
		run, err := e.stepper.PotentialEnergy(ctx, simulate.PotentialEnergyParams{
			Mass:   p[0],
			Height: p[1],
			Steps:  int(p[2]),
			Trace:  req.Trace,
		})
		if err != nil {
			return cache.Value{}, e.wrapComputeErr(req.Kind, err)
		}
		return valueFromRun(run), nil

	case KindFluidFlow:
		run, err := e.stepper.FluidFlow(ctx, simulate.FluidFlowParams{
			MaxVelocity: p[0],
			Radius:      p[1],
			Stations:    int(p[2]),
			Trace:       req.Trace,
		})
		if err != nil {
			return cache.Value{}, e.wrapComputeErr(req.Kind, err)
		}
		return valueFromRun(run), nil

	case KindGravWave:
		run, err := e.stepper.GravWave(ctx, simulate.GravWaveParams{
			Amplitude: p[0],
			Distance:  p[1],
			Steps:     int(p[2]),
			Trace:     req.Trace,
		})
		if err != nil {
			return cache.Value{}, e.wrapComputeErr(req.Kind, err)
		}
		return valueFromRun(run), nil

	default:
		return cache.Value{}, &Error{Op: "evaluate", Kind: req.Kind, Constraint: "kind is not recognized", Cause: ErrUnknownKind}
	}
}

// valueFromRun flattens a simulation run into a cacheable value.
func valueFromRun(run *simulate.Run) cache.Value {
	v := cache.Value{Scalar: run.Aggregate}
	if run.Trace != nil {
		v.Samples = run.Trace.Values()
		v.Elapsed = run.Trace.ElapsedAxis()
	}
	return v
}

// wrapComputeErr maps subsystem errors onto the engine taxonomy.
func (e *Engine) wrapComputeErr(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	cause := ErrInvalidArgument
	switch {
	case errors.Is(err, simulate.ErrOverflow), errors.Is(err, recurrence.ErrOverflow):
		cause = ErrNumericOverflow
	case errors.Is(err, cache.ErrInvalidValue):
		cause = ErrInvalidValue
	}
	return &Error{Op: "evaluate", Kind: kind, Constraint: err.Error(), Cause: cause}
}

// Key returns the cache key Evaluate would derive for req, for
// operational tooling that invalidates by key.
func (e *Engine) Key(req Request) (string, error) {
	return e.keyer.Key(req.Kind.String(), req.paramValues())
}

// Invalidate removes the cached entry for req's key. Idempotent.
// Administrative surface, not a normal request path.
func (e *Engine) Invalidate(ctx context.Context, req Request) error {
	key, err := e.Key(req)
	if err != nil {
		return err
	}
	return e.store.Invalidate(ctx, key)
}

// InvalidateKey removes the cached entry under an explicit key.
func (e *Engine) InvalidateKey(ctx context.Context, key string) error {
	return e.store.Invalidate(ctx, key)
}

// InvalidateAll resets the calculation cache. Administrative surface.
func (e *Engine) InvalidateAll(ctx context.Context) error {
	return e.store.InvalidateAll(ctx)
}

// CacheStats returns a snapshot of cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.store.Stats()
}
