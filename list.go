package invz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
)

// ComponentList is an ordered pipeline description: the steps of the
// Components it was built from, in left-to-right declaration order. The
// order is semantically significant - it is the forward execution order,
// and inverse execution traverses it in reverse.
//
// A ComponentList takes exclusive ownership of the Components it was built
// from, and is itself one-shot: folding it into a longer list or compiling
// it into a Task consumes it, and any further use fails with ErrConsumed.
//
// Chaining is associative. Both operands flatten to their step sequences
// before concatenation, so (a|b)|c and a|(b|c) describe the same pipeline.
type ComponentList struct {
	steps []step

	mu       sync.Mutex
	consumed bool
}

// Chain combines composable values left to right into a single
// ComponentList, consuming each of them. It is the variadic form of Then:
//
//	list, err := invz.Chain(a, b, c)
//
// is equivalent to a.Then(b) followed by .Then(c). Returns ErrEmptyChain
// for zero parts, ErrConsumed if any part was already consumed, and the
// build error of any part that failed to configure. Parts taken before a
// failing part stay consumed; chaining errors are programmer errors, not
// conditions to recover from.
func Chain(parts ...Composable) (*ComponentList, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyChain
	}

	var steps []step
	for _, part := range parts {
		taken, err := part.take()
		if err != nil {
			return nil, err
		}
		steps = append(steps, taken...)
	}
	return &ComponentList{steps: steps}, nil
}

// chainParts is the shared implementation of the Then methods.
func chainParts(left, right Composable) (*ComponentList, error) {
	return Chain(left, right)
}

// Then chains this list with the next composable value, consuming both,
// and returns the combined ComponentList. Step order is left to right:
// this list's steps first, then the steps of next.
func (l *ComponentList) Then(next Composable) (*ComponentList, error) {
	return chainParts(l, next)
}

// ToTask compiles the list into an immutable Task, consuming it.
func (l *ComponentList) ToTask() (*Task, error) {
	steps, err := l.take()
	if err != nil {
		return nil, err
	}
	return newTask(steps), nil
}

// Len returns the number of steps in the list.
func (l *ComponentList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.steps)
}

// Names returns the step names in forward execution order.
func (l *ComponentList) Names() []Name {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]Name, len(l.steps))
	for i, st := range l.steps {
		names[i] = st.identity.Name()
	}
	return names
}

// String renders the pipeline as "a -> b -> c".
func (l *ComponentList) String() string {
	return strings.Join(l.Names(), " -> ")
}

// take transfers ownership of the step sequence, enforcing one-shot use.
func (l *ComponentList) take() ([]step, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.consumed {
		capitan.Warn(context.Background(), SignalComponentReuseRejected,
			FieldName.Field(l.lockedString()),
			FieldTimestamp.Field(float64(time.Now().Unix())),
		)
		return nil, fmt.Errorf("component list %q: %w", l.lockedString(), ErrConsumed)
	}
	l.consumed = true
	return l.steps, nil
}

// lockedString renders the step names while l.mu is already held.
func (l *ComponentList) lockedString() string {
	names := make([]string, len(l.steps))
	for i, st := range l.steps {
		names[i] = string(st.identity.Name())
	}
	return strings.Join(names, " -> ")
}
