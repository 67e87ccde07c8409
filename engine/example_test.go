package engine_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/calcops/engine"
)

func ExampleEngine_Evaluate() {
	e, err := engine.New(engine.DefaultConfig())
	if err != nil {
		fmt.Println("new:", err)
		return
	}
	defer e.Close()

	ctx := context.Background()
	req := engine.NewRequest(engine.KindForce, 2.0, 10.0)

	first, _ := e.Evaluate(ctx, req)
	second, _ := e.Evaluate(ctx, req)

	fmt.Printf("force = %.1f N (cached: %v)\n", first.Value, first.Cached)
	fmt.Printf("force = %.1f N (cached: %v)\n", second.Value, second.Cached)
	// Output:
	// force = 20.0 N (cached: false)
	// force = 20.0 N (cached: true)
}

func ExampleEngine_Evaluate_trace() {
	e, err := engine.New(engine.DefaultConfig())
	if err != nil {
		fmt.Println("new:", err)
		return
	}
	defer e.Close()

	req := engine.NewRequest(engine.KindFibonacciForce, 10)
	req.Trace = true

	res, err := e.Evaluate(context.Background(), req)
	if err != nil {
		fmt.Println("evaluate:", err)
		return
	}

	fmt.Printf("term = %.0f, trace samples = %d\n", res.Value, res.Trace.Len())
	// Output:
	// term = 55, trace samples = 11
}

func ExampleError() {
	e, err := engine.New(engine.DefaultConfig())
	if err != nil {
		fmt.Println("new:", err)
		return
	}
	defer e.Close()

	_, err = e.Evaluate(context.Background(), engine.NewRequest(engine.KindForce, -1.0, 9.8))

	var ee *engine.Error
	if errors.As(err, &ee) {
		fmt.Println("kind:", ee.Kind)
		fmt.Println("constraint:", ee.Constraint)
		fmt.Println("invalid argument:", errors.Is(err, engine.ErrInvalidArgument))
	}
	// Output:
	// kind: force
	// constraint: mass must be non-negative
	// invalid argument: true
}
