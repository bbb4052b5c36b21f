package invz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegisterClass(t *testing.T) {
	t.Run("Nil Constructor Panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected RegisterClass to panic on nil constructor")
			}
		}()
		RegisterClass[struct{}](NewIdentity("bad", ""), nil)
	})

	t.Run("Metadata Accessors", func(t *testing.T) {
		gen := newSubtractGenerator()

		if gen.Name() != subtractName {
			t.Errorf("expected name %q, got %q", subtractName, gen.Name())
		}
		if gen.Description() == "" {
			t.Error("expected non-empty description")
		}
	})

	t.Run("Instance Inverse Detected", func(t *testing.T) {
		// subtract(3, twice): forward a - b*2, inverse a + b*2.
		task := mustTask(t, newSubtractGenerator().New(subtractConfig{B: 3, Twice: true}))
		defer task.Close()

		forward, err := task.Run(context.Background(), 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if forward != 4 {
			t.Errorf("expected 4, got %v", forward)
		}

		back, err := task.Inverse(context.Background(), 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back != 10 {
			t.Errorf("expected 10, got %v", back)
		}
	})

	t.Run("Missing Inverse Falls Back To Identity", func(t *testing.T) {
		gen := RegisterClass(NewIdentity("forward-only", ""),
			func(_ struct{}) (Transformer, error) {
				return forwardOnlyOp{}, nil
			})
		task := mustTask(t, gen.New(struct{}{}))
		defer task.Close()

		back, err := task.Inverse(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back != 7 {
			t.Errorf("expected identity fallback to return 7, got %v", back)
		}
	})

	t.Run("Construction Failure Surfaces At Composition", func(t *testing.T) {
		gen := RegisterClass(NewIdentity("broken", ""),
			func(_ struct{}) (Transformer, error) {
				return nil, errBoom
			})

		_, err := gen.New(struct{}{}).ToTask()
		if err == nil {
			t.Fatal("expected construction error")
		}
		if !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom in chain, got %v", err)
		}
		if !strings.Contains(err.Error(), "construction failed") {
			t.Errorf("unexpected error message: %v", err)
		}
	})

	t.Run("Nil Instance Surfaces At Composition", func(t *testing.T) {
		gen := RegisterClass(NewIdentity("nil-instance", ""),
			func(_ struct{}) (Transformer, error) {
				return nil, nil
			})

		if _, err := gen.New(struct{}{}).ToTask(); err == nil {
			t.Fatal("expected nil instance error")
		}
	})

	t.Run("Instances Do Not Share State", func(t *testing.T) {
		gen := RegisterClass(NewIdentity("counter", ""),
			func(_ struct{}) (Transformer, error) {
				return &countingOp{}, nil
			})

		first := mustTask(t, gen.New(struct{}{}))
		defer first.Close()
		second := mustTask(t, gen.New(struct{}{}))
		defer second.Close()

		for i := 0; i < 3; i++ {
			if _, err := first.Run(context.Background(), 0); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		result, err := second.Run(context.Background(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 1 {
			t.Errorf("expected second instance to count from 1, got %v", result)
		}
	})
}

type forwardOnlyOp struct{}

func (forwardOnlyOp) Call(_ context.Context, _ Frame, args ...any) (any, error) {
	return args[0], nil
}

// countingOp keeps mutable state on the instance. Such state is explicitly
// the user's responsibility, not covered by the Task's consistency
// guarantees; the test only verifies instance isolation across New calls.
type countingOp struct {
	calls int
}

func (c *countingOp) Call(_ context.Context, _ Frame, _ ...any) (any, error) {
	c.calls++
	return c.calls, nil
}
