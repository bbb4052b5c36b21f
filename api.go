// Package invz provides a lightweight library for building composable,
// invertible data transformation pipelines in Go.
//
// # Overview
//
// invz lifts user-supplied forward/inverse function pairs into reusable,
// parameterizable generators, chains configured steps into pipeline
// descriptions, and compiles those descriptions into immutable Tasks that
// can be executed forward and, where meaningful, undone. It is aimed at
// preprocessing chains (feature engineering, encoding/decoding, unit
// conversions) where each step knows how to reverse itself.
//
// # Installation
//
//	go get github.com/zoobzio/invz
//
// Requires Go 1.23+ for generic type constraints.
//
// # Core Concepts
//
// The construction flow moves through four stages:
//
//	Generator --New(cfg)--> Component --Then/Chain--> ComponentList --ToTask--> Task
//
// Key components:
//   - Generators: reusable factories created with Register (plain functions)
//     or RegisterClass (stateful instances). Each New call produces a fresh,
//     independently consumable Component bound to the given configuration.
//   - Components: single configured pipeline steps. A Component is one-shot:
//     folding it into a chain or a Task consumes it, and a second use fails
//     with ErrConsumed.
//   - ComponentLists: ordered pipeline descriptions built with Then or Chain.
//     Chaining is associative: (a|b)|c and a|(b|c) produce the same steps.
//   - Tasks: the compiled form. A Task is immutable, holds no per-call state,
//     and is safe to invoke concurrently, forward and inverse, interleaved.
//
// # Quick Start
//
//	var scaleID = invz.NewIdentity("scale", "Multiplies the value by a factor.")
//
//	type ScaleConfig struct {
//	    Factor float64
//	}
//
//	var Scale = invz.Register(scaleID, func(_ context.Context, _ invz.Frame, cfg ScaleConfig, args ...any) (any, error) {
//	    return args[0].(float64) * cfg.Factor, nil
//	}).WithInverse(func(_ context.Context, _ invz.Frame, cfg ScaleConfig, args ...any) (any, error) {
//	    return args[0].(float64) / cfg.Factor, nil
//	})
//
//	func main() {
//	    list, err := invz.Chain(Scale.New(ScaleConfig{Factor: 2}), Scale.New(ScaleConfig{Factor: 5}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    task, err := list.ToTask()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    forward, _ := task.Run(context.Background(), 3.0)     // 30.0
//	    back, _ := task.Inverse(context.Background(), forward) // 3.0
//	    _ = back
//	}
//
// # Value Threading
//
// Steps exchange plain positional values. A step that needs to hand several
// values to its successor returns a Tuple; the engine spreads the Tuple into
// the next step's positional arguments. Any other return value, including
// nil, is passed along as a single argument. invz imposes no numeric or type
// contract on the data flowing through a pipeline - threading is pure
// composition plumbing around the user's functions.
//
// # Inverse Semantics
//
// Task.Inverse traverses the steps in reverse declared order. A step without
// a registered inverse contributes the identity transform, so a pipeline with
// no inverses anywhere degenerates to the overall identity rather than
// failing. Steps that satisfy a round-trip law individually compose into a
// Task that satisfies it end to end.
//
// # Error Handling
//
// Three error kinds surface from the API, always synchronously:
//
//   - Configuration errors: Register and RegisterClass panic on nil
//     functions at registration time; config validation and class
//     construction failures are returned from the Component's first
//     composition point (Then, Chain, or ToTask).
//   - Reuse errors: consuming an already-consumed Component or ComponentList
//     fails eagerly with ErrConsumed at the point of reuse.
//   - Propagated transform errors: an error from a user callable during
//     execution is returned wrapped in *StepError, which records the step
//     path, direction, and duration while exposing the original error
//     through Unwrap, so errors.Is and errors.As observe it unchanged.
//     The engine adds no retry, suppression, or rollback.
//
// # Observability
//
// Every Task carries its own metrics registry (metricz), tracer (tracez),
// and event hooks (hookz); see Task.Metrics, Task.Tracer, Task.OnStepComplete
// and Task.OnComplete. Structural events (compilation, rejected reuse) emit
// capitan signals. None of this participates in execution semantics.
package invz

import "context"

// Name is a type alias for generator, component, and step names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    NormalizeName invz.Name = "normalize"
//	    EncodeName    invz.Name = "encode"
//	)
type Name = string

// Func is a bound transform: a forward or inverse function with its
// configuration already captured. The engine supplies the context, the
// execution Frame, and the positional data arguments threaded from the
// neighboring step at every call.
type Func func(ctx context.Context, fr Frame, args ...any) (any, error)

// ConfigFunc is a transform template parameterized by a configuration
// struct. Generator.New binds a concrete configuration into the template,
// producing the Func carried by the resulting Component.
type ConfigFunc[C any] func(ctx context.Context, fr Frame, cfg C, args ...any) (any, error)

// Tuple is a multi-value step result. When a step returns a Tuple the
// engine spreads its elements into the next step's positional arguments;
// every other value travels as a single argument.
//
//	return invz.Tuple{quotient, remainder}, nil
type Tuple []any

// Validator is implemented by configuration structs that want their
// values checked when a Component is instantiated. A validation failure
// surfaces as a configuration error at the Component's first composition
// point.
type Validator interface {
	Validate() error
}

// Composable is the common interface of Component and ComponentList: any
// value that can be folded into a longer chain or compiled into a Task.
// Folding consumes the value; the interface is sealed to the package so
// the one-shot ownership rule cannot be bypassed.
type Composable interface {
	// ToTask compiles the value into an immutable Task, consuming it.
	ToTask() (*Task, error)

	take() ([]step, error)
}

// step is one bound transform unit inside a chain or compiled Task.
type step struct {
	identity   Identity
	forward    Func
	inverse    Func
	hasInverse bool
}

// identityTransform is the per-step inverse fallback: a single argument is
// returned unchanged, several arguments are returned as a Tuple so they
// thread on intact.
func identityTransform(_ context.Context, _ Frame, args ...any) (any, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return Tuple(args), nil
}

// spread flattens a step result into the next step's argument list.
func spread(v any) []any {
	if t, ok := v.(Tuple); ok {
		return []any(t)
	}
	return []any{v}
}
