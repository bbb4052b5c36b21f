package invz

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// Shared test fixtures: a function-based adder, a class-based subtractor,
// and small helpers used across the package tests.

const (
	addName      Name = "add"
	subtractName Name = "subtract"
	scaleName    Name = "scale"
	failName     Name = "fail"
)

var errBoom = errors.New("boom")

func asInt(v any) (int, error) {
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("expected int, got %T", v)
	}
	return n, nil
}

func sumArgs(args []any) (int, error) {
	total := 0
	for _, a := range args {
		n, err := asInt(a)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

type addConfig struct {
	// UseSubtractInstead folds the arguments with subtraction rather than
	// addition, left to right.
	UseSubtractInstead bool
}

// newAddGenerator lifts a plain variadic arithmetic function. No inverse is
// registered, so its steps fall back to the identity during inversion.
func newAddGenerator() *Generator[addConfig] {
	return Register(NewIdentity(addName, "Adds its arguments."),
		func(_ context.Context, _ Frame, cfg addConfig, args ...any) (any, error) {
			if !cfg.UseSubtractInstead {
				return sumArgs(args)
			}
			result, err := asInt(args[0])
			if err != nil {
				return nil, err
			}
			for _, a := range args[1:] {
				n, err := asInt(a)
				if err != nil {
					return nil, err
				}
				result -= n
			}
			return result, nil
		})
}

type subtractConfig struct {
	B     int
	Twice bool
}

// subtractOp holds its configuration on the instance, class-component
// style, and registers an explicit inverse.
type subtractOp struct {
	b int
}

func newSubtractOp(cfg subtractConfig) *subtractOp {
	b := cfg.B
	if cfg.Twice {
		b *= 2
	}
	return &subtractOp{b: b}
}

func (s *subtractOp) Call(_ context.Context, _ Frame, args ...any) (any, error) {
	a, err := asInt(args[0])
	if err != nil {
		return nil, err
	}
	return a - s.b, nil
}

func (s *subtractOp) Inverse(_ context.Context, _ Frame, args ...any) (any, error) {
	a, err := asInt(args[0])
	if err != nil {
		return nil, err
	}
	return a + s.b, nil
}

func newSubtractGenerator() *ClassGenerator[subtractConfig] {
	return RegisterClass(NewIdentity(subtractName, "Subtracts a configured constant."),
		func(cfg subtractConfig) (Transformer, error) {
			return newSubtractOp(cfg), nil
		})
}

type scaleConfig struct {
	Factor int
}

// newScaleGenerator is an invertible function-based step used for
// round-trip tests.
func newScaleGenerator() *Generator[scaleConfig] {
	return Register(NewIdentity(scaleName, "Multiplies by a factor."),
		func(_ context.Context, _ Frame, cfg scaleConfig, args ...any) (any, error) {
			n, err := asInt(args[0])
			if err != nil {
				return nil, err
			}
			return n * cfg.Factor, nil
		}).
		WithInverse(func(_ context.Context, _ Frame, cfg scaleConfig, args ...any) (any, error) {
			n, err := asInt(args[0])
			if err != nil {
				return nil, err
			}
			return n / cfg.Factor, nil
		})
}

// newFailGenerator returns a step whose forward transform always fails
// with errBoom.
func newFailGenerator() *Generator[struct{}] {
	return Register(NewIdentity(failName, ""),
		func(_ context.Context, _ Frame, _ struct{}, _ ...any) (any, error) {
			return nil, errBoom
		})
}

// mustChain is a test convenience for chains that must not fail.
func mustChain(t *testing.T, parts ...Composable) *ComponentList {
	t.Helper()
	list, err := Chain(parts...)
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	return list
}

// mustTask compiles a composable, failing the test on error.
func mustTask(t *testing.T, c Composable) *Task {
	t.Helper()
	task, err := c.ToTask()
	if err != nil {
		t.Fatalf("to task failed: %v", err)
	}
	return task
}
