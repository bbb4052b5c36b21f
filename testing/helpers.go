// Package testing provides test utilities and helpers for invz-based
// applications.
//
// This package includes a configurable mock transform generator, call
// tracking, and assertion helpers to make testing invertible pipelines
// easier.
//
// Example usage:
//
//	func TestMyPipeline(t *testing.T) {
//		mock := invztesting.NewMockTransform(t, "mock")
//		mock.WithForward(func(args ...any) (any, error) { return "processed", nil })
//
//		task, err := mock.New().ToTask()
//		if err != nil {
//			t.Fatal(err)
//		}
//		result, err := task.Run(context.Background(), "input")
//		if err != nil {
//			t.Fatal(err)
//		}
//		if result != "processed" {
//			t.Errorf("got %v", result)
//		}
//		invztesting.AssertForwardCalls(t, mock, 1)
//	}
package testing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/invz"
)

// MockTransform is a configurable generator of mock pipeline steps. Each
// New call yields a fresh single-use Component whose forward and inverse
// behavior, delays, and call tracking are shared with the mock, so a test
// can both drive and observe a pipeline that contains it.
type MockTransform struct {
	t    *testing.T
	name invz.Name

	forwardCalls int64
	inverseCalls int64

	mu          sync.RWMutex
	forwardFn   func(args ...any) (any, error)
	inverseFn   func(args ...any) (any, error)
	delay       time.Duration
	lastForward []any
	lastInverse []any
	lastFrame   invz.Frame
}

// NewMockTransform creates a mock transform generator. By default the
// forward transform echoes its input (identity) and no inverse is
// registered, so the mock behaves like a step without an inverse.
func NewMockTransform(t *testing.T, name invz.Name) *MockTransform {
	return &MockTransform{t: t, name: name}
}

// WithForward configures the forward behavior. The mock returns whatever
// the function returns for all subsequent calls.
func (m *MockTransform) WithForward(fn func(args ...any) (any, error)) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forwardFn = fn
	return m
}

// WithInverse configures the inverse behavior. Until this is called the
// mock's Components carry the engine's identity fallback.
func (m *MockTransform) WithInverse(fn func(args ...any) (any, error)) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inverseFn = fn
	return m
}

// WithDelay configures the mock to sleep before answering, honoring
// context cancellation. Useful for exercising deadline behavior.
func (m *MockTransform) WithDelay(d time.Duration) *MockTransform {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// Name returns the mock's step name.
func (m *MockTransform) Name() invz.Name {
	return m.name
}

// New produces a fresh single-use Component backed by this mock. Every
// Component shares the mock's configuration and call tracking.
func (m *MockTransform) New() *invz.Component {
	gen := invz.Register(invz.NewIdentity(m.name, "mock transform"),
		func(ctx context.Context, fr invz.Frame, _ struct{}, args ...any) (any, error) {
			return m.callForward(ctx, fr, args)
		})
	m.mu.RLock()
	hasInverse := m.inverseFn != nil
	m.mu.RUnlock()
	if hasInverse {
		gen = gen.WithInverse(func(ctx context.Context, fr invz.Frame, _ struct{}, args ...any) (any, error) {
			return m.callInverse(ctx, fr, args)
		})
	}
	return gen.New(struct{}{})
}

func (m *MockTransform) callForward(ctx context.Context, fr invz.Frame, args []any) (any, error) {
	atomic.AddInt64(&m.forwardCalls, 1)

	m.mu.Lock()
	m.lastForward = append([]any(nil), args...)
	m.lastFrame = fr
	fn := m.forwardFn
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if fn == nil {
		if len(args) == 1 {
			return args[0], nil
		}
		return invz.Tuple(args), nil
	}
	return fn(args...)
}

func (m *MockTransform) callInverse(ctx context.Context, fr invz.Frame, args []any) (any, error) {
	atomic.AddInt64(&m.inverseCalls, 1)

	m.mu.Lock()
	m.lastInverse = append([]any(nil), args...)
	m.lastFrame = fr
	fn := m.inverseFn
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if fn == nil {
		if len(args) == 1 {
			return args[0], nil
		}
		return invz.Tuple(args), nil
	}
	return fn(args...)
}

// ForwardCalls returns how many times the forward transform ran.
func (m *MockTransform) ForwardCalls() int {
	return int(atomic.LoadInt64(&m.forwardCalls))
}

// InverseCalls returns how many times the inverse transform ran.
func (m *MockTransform) InverseCalls() int {
	return int(atomic.LoadInt64(&m.inverseCalls))
}

// LastForwardArgs returns the arguments of the most recent forward call.
func (m *MockTransform) LastForwardArgs() []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastForward
}

// LastInverseArgs returns the arguments of the most recent inverse call.
func (m *MockTransform) LastInverseArgs() []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInverse
}

// LastFrame returns the Frame supplied to the most recent call in either
// direction.
func (m *MockTransform) LastFrame() invz.Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFrame
}

// Reset clears all call tracking.
func (m *MockTransform) Reset() {
	atomic.StoreInt64(&m.forwardCalls, 0)
	atomic.StoreInt64(&m.inverseCalls, 0)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastForward = nil
	m.lastInverse = nil
	m.lastFrame = invz.Frame{}
}

// Assertion Helpers

// AssertForwardCalls verifies the forward transform ran exactly n times.
func AssertForwardCalls(t *testing.T, mock *MockTransform, expected int) {
	t.Helper()
	actual := mock.ForwardCalls()
	if actual != expected {
		t.Errorf("expected mock %s forward to be called %d times, but was called %d times",
			mock.name, expected, actual)
	}
}

// AssertInverseCalls verifies the inverse transform ran exactly n times.
func AssertInverseCalls(t *testing.T, mock *MockTransform, expected int) {
	t.Helper()
	actual := mock.InverseCalls()
	if actual != expected {
		t.Errorf("expected mock %s inverse to be called %d times, but was called %d times",
			mock.name, expected, actual)
	}
}

// AssertNotCalled verifies that neither direction of the mock ever ran.
func AssertNotCalled(t *testing.T, mock *MockTransform) {
	t.Helper()
	AssertForwardCalls(t, mock, 0)
	AssertInverseCalls(t, mock, 0)
}

// ParallelTest runs a test function in parallel with multiple goroutines.
// Useful for exercising concurrent Task invocation.
func ParallelTest(t *testing.T, goroutines int, testFunc func(int)) {
	t.Helper()

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			testFunc(id)
		}(i)
	}

	wg.Wait()
}
