package invz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStepError(t *testing.T) {
	t.Run("Forward Message", func(t *testing.T) {
		err := &StepError{
			Err:      errBoom,
			Step:     failName,
			Index:    2,
			Duration: 100 * time.Millisecond,
		}

		msg := err.Error()
		if !strings.Contains(msg, `step "fail" (index 2)`) {
			t.Errorf("unexpected message %q", msg)
		}
		if !strings.Contains(msg, "failed after") {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("Inverse Message", func(t *testing.T) {
		err := &StepError{Err: errBoom, Step: failName, Inverse: true}

		if !strings.Contains(err.Error(), "inverse of step") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Timeout Message", func(t *testing.T) {
		err := &StepError{Err: context.DeadlineExceeded, Step: failName, Timeout: true}

		if !strings.Contains(err.Error(), "timed out after") {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !err.IsTimeout() {
			t.Error("expected IsTimeout")
		}
	})

	t.Run("Canceled Message", func(t *testing.T) {
		err := &StepError{Err: context.Canceled, Step: failName, Canceled: true}

		if !strings.Contains(err.Error(), "canceled after") {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !err.IsCanceled() {
			t.Error("expected IsCanceled")
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		err := &StepError{Err: errBoom, Step: failName}

		if !errors.Is(err, errBoom) {
			t.Error("expected errors.Is to see the wrapped error")
		}
		if err.Unwrap() != errBoom {
			t.Error("expected Unwrap to return the original error")
		}
	})

	t.Run("Detection From Context Errors", func(t *testing.T) {
		timeout := &StepError{Err: context.DeadlineExceeded, Step: failName}
		if !timeout.IsTimeout() {
			t.Error("expected timeout detection from wrapped error")
		}

		canceled := &StepError{Err: context.Canceled, Step: failName}
		if !canceled.IsCanceled() {
			t.Error("expected cancellation detection from wrapped error")
		}
	})
}
