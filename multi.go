package invz

import (
	"context"
	"fmt"
)

// Multi builds a fan-out Component: one branch per positional argument.
// The i-th argument is fed to the i-th branch and the branch outputs are
// returned as a Tuple, so they spread into the next step's positionals. A
// nil branch passes its argument through unchanged.
//
// Each branch is compiled into its own Task, consuming it; a consumed or
// misconfigured branch surfaces here, before the Component is composed.
// Branch steps execute one Frame level deeper than the fan-out step.
//
// The inverse feeds the i-th argument to the i-th branch's inverse, so a
// Multi of individually invertible branches round-trips as a whole:
//
//	fanout, err := invz.Multi(invz.NewIdentity("per-column", "Scales each column."),
//	    scale.New(ScaleConfig{Factor: 2}),
//	    nil,
//	    scale.New(ScaleConfig{Factor: 10}),
//	)
//
// Execution fails with ErrArityMismatch when the argument count differs
// from the branch count, in either direction.
func Multi(identity Identity, branches ...Composable) (*Component, error) {
	tasks := make([]*Task, len(branches))
	for i, branch := range branches {
		if branch == nil {
			continue
		}
		task, err := branch.ToTask()
		if err != nil {
			return nil, fmt.Errorf("multi %q: branch %d: %w", identity.Name(), i, err)
		}
		tasks[i] = task
	}

	return &Component{
		identity: identity,
		st: step{
			identity: identity,
			forward: func(ctx context.Context, fr Frame, args ...any) (any, error) {
				return fanOut(ctx, fr, identity, tasks, args, false)
			},
			inverse: func(ctx context.Context, fr Frame, args ...any) (any, error) {
				return fanOut(ctx, fr, identity, tasks, args, true)
			},
			hasInverse: true,
		},
	}, nil
}

// fanOut routes one argument through each branch task and collects the
// outputs. Nil branches are identity slots.
func fanOut(ctx context.Context, fr Frame, identity Identity, tasks []*Task, args []any, inverse bool) (any, error) {
	if len(args) != len(tasks) {
		return nil, fmt.Errorf("multi %q: got %d arguments for %d branches: %w",
			identity.Name(), len(args), len(tasks), ErrArityMismatch)
	}

	outputs := make(Tuple, len(tasks))
	for i, task := range tasks {
		if task == nil {
			outputs[i] = args[i]
			continue
		}
		var out any
		var err error
		if inverse {
			out, err = task.inverse(ctx, fr.Nested(), args[i])
		} else {
			out, err = task.run(ctx, fr.Nested(), args[i])
		}
		if err != nil {
			return nil, err
		}
		outputs[i] = out
	}
	return outputs, nil
}
