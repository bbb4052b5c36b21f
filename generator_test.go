package invz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegister(t *testing.T) {
	t.Run("Metadata Accessors", func(t *testing.T) {
		gen := newAddGenerator()

		if gen.Name() != addName {
			t.Errorf("expected name %q, got %q", addName, gen.Name())
		}
		if gen.Description() != "Adds its arguments." {
			t.Errorf("unexpected description %q", gen.Description())
		}
		if gen.Identity().Name() != addName {
			t.Errorf("identity name mismatch: %q", gen.Identity().Name())
		}
	})

	t.Run("Nil Forward Panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected Register to panic on nil forward")
			}
		}()
		Register[struct{}](NewIdentity("bad", ""), nil)
	})

	t.Run("Nil Inverse Panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected WithInverse to panic on nil inverse")
			}
		}()
		newAddGenerator().WithInverse(nil)
	})

	t.Run("Subtract Mode", func(t *testing.T) {
		// add(use_subtract_instead).to_task() called with (2, 3) returns -1.
		task := mustTask(t, newAddGenerator().New(addConfig{UseSubtractInstead: true}))
		defer task.Close()

		result, err := task.Run(context.Background(), 2, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != -1 {
			t.Errorf("expected -1, got %v", result)
		}
	})

	t.Run("Independent Components", func(t *testing.T) {
		// Two New calls yield independently consumable Components;
		// consuming one must not affect the other.
		gen := newAddGenerator()
		first := gen.New(addConfig{})
		second := gen.New(addConfig{})

		if _, err := first.ToTask(); err != nil {
			t.Fatalf("first component failed to compile: %v", err)
		}

		task, err := second.ToTask()
		if err != nil {
			t.Fatalf("second component should be unaffected: %v", err)
		}
		defer task.Close()

		result, err := task.Run(context.Background(), 1, 2, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 6 {
			t.Errorf("expected 6, got %v", result)
		}
	})
}

type validatedConfig struct {
	Factor int
}

func (c validatedConfig) Validate() error {
	if c.Factor == 0 {
		return errors.New("factor must be non-zero")
	}
	return nil
}

func TestConfigValidation(t *testing.T) {
	gen := Register(NewIdentity("validated", ""),
		func(_ context.Context, _ Frame, cfg validatedConfig, args ...any) (any, error) {
			return args[0].(int) * cfg.Factor, nil
		})

	t.Run("Valid Config", func(t *testing.T) {
		task := mustTask(t, gen.New(validatedConfig{Factor: 2}))
		defer task.Close()

		result, err := task.Run(context.Background(), 21)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != 42 {
			t.Errorf("expected 42, got %v", result)
		}
	})

	t.Run("Invalid Config Surfaces At Composition", func(t *testing.T) {
		bad := gen.New(validatedConfig{})

		_, err := bad.ToTask()
		if err == nil {
			t.Fatal("expected configuration error")
		}
		if !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("unexpected error message: %v", err)
		}
	})

	t.Run("Invalid Config Blocks Chaining", func(t *testing.T) {
		bad := gen.New(validatedConfig{})
		other := newAddGenerator().New(addConfig{})

		if _, err := bad.Then(other); err == nil {
			t.Fatal("expected configuration error from Then")
		}
	})
}
