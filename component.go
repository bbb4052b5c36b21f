package invz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
)

// Component is a single configured, not-yet-runnable pipeline step. It owns
// the transform bound to its captured configuration and is strictly
// one-shot: folding it into a ComponentList (Then, Chain) or compiling it
// into a Task transfers ownership of the bound transform, and any further
// use fails with ErrConsumed.
//
// Components are produced by Generator.New and ClassGenerator.New; there is
// no other way to create one.
type Component struct {
	identity Identity
	st       step
	buildErr error

	mu       sync.Mutex
	consumed bool
}

// Identity returns the component's metadata.
func (c *Component) Identity() Identity {
	return c.identity
}

// Name returns the component's name.
func (c *Component) Name() Name {
	return c.identity.Name()
}

// Description returns the component's description, which may be empty.
func (c *Component) Description() string {
	return c.identity.Description()
}

// Then chains this component with the next composable value, consuming
// both, and returns the combined ComponentList. Step order is left to
// right: this component's step first, then the steps of next.
//
// Returns ErrConsumed if either operand has already been folded into a
// chain or Task, and a configuration error if either operand failed to
// build.
func (c *Component) Then(next Composable) (*ComponentList, error) {
	return chainParts(c, next)
}

// ToTask compiles the component into a single-step Task, consuming it.
func (c *Component) ToTask() (*Task, error) {
	steps, err := c.take()
	if err != nil {
		return nil, err
	}
	return newTask(steps), nil
}

// take transfers ownership of the bound step, enforcing one-shot use.
func (c *Component) take() ([]step, error) {
	if c.buildErr != nil {
		return nil, c.buildErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumed {
		capitan.Warn(context.Background(), SignalComponentReuseRejected,
			FieldName.Field(string(c.identity.Name())),
			FieldTimestamp.Field(float64(time.Now().Unix())),
		)
		return nil, fmt.Errorf("component %q: %w", c.identity.Name(), ErrConsumed)
	}
	c.consumed = true
	return []step{c.st}, nil
}
