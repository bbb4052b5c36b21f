package invz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for Task execution.
const (
	// Metrics.
	TaskRunsTotal               = metricz.Key("task.runs.total")
	TaskRunSuccessesTotal       = metricz.Key("task.run.successes.total")
	TaskRunFailuresTotal        = metricz.Key("task.run.failures.total")
	TaskInversionsTotal         = metricz.Key("task.inversions.total")
	TaskInversionSuccessesTotal = metricz.Key("task.inversion.successes.total")
	TaskInversionFailuresTotal  = metricz.Key("task.inversion.failures.total")
	TaskStepsTotal              = metricz.Key("task.steps.total")
	TaskDurationMs              = metricz.Key("task.duration.ms")

	// Spans.
	TaskRunSpan     = tracez.Key("task.run")
	TaskInverseSpan = tracez.Key("task.inverse")
	TaskStepSpan    = tracez.Key("task.step")

	// Tags.
	TaskTagStepCount  = tracez.Tag("task.step_count")
	TaskTagStepNumber = tracez.Tag("task.step_number")
	TaskTagStepName   = tracez.Tag("task.step_name")
	TaskTagDirection  = tracez.Tag("task.direction")
	TaskTagSuccess    = tracez.Tag("task.success")
	TaskTagError      = tracez.Tag("task.error")

	// Hook event keys.
	TaskEventStepComplete = hookz.Key("task.step_complete")
	TaskEventComplete     = hookz.Key("task.complete")
)

// TaskEvent represents a task execution event. It is emitted via hookz when
// an individual step finishes and when a whole forward or inverse traversal
// completes, providing visibility into pipeline progress.
type TaskEvent struct {
	StepName       Name          // Name of the step transform
	StepNumber     int           // Step number in traversal order (1-based)
	TotalSteps     int           // Total number of steps
	Inverse        bool          // Whether this was inverse execution
	Success        bool          // Whether the step (or traversal) succeeded
	Error          error         // Error if the step failed
	Duration       time.Duration // How long this step took
	CompletedSteps int           // Steps completed (for task.complete)
	TotalDuration  time.Duration // Total traversal time (for task.complete)
	Timestamp      time.Time     // When the event occurred
}

// Task is the compiled, executable, invertible form of a pipeline: an
// immutable ordered sequence of bound transform units with no back-reference
// to the Components that produced it.
//
// A Task holds no per-call state. Run and Inverse may be called any number
// of times, in any order, interleaved, from concurrent goroutines - the
// engine never serializes calls, so the only reentrancy requirement is on
// the user-supplied transforms themselves. State private to a wrapped
// instance (for example an internal counter on a class-based step) is the
// user's responsibility.
//
// # Observability
//
// Each Task carries its own metrics registry, tracer, and event hooks:
//
// Metrics:
//   - task.runs.total / task.run.successes.total / task.run.failures.total
//   - task.inversions.total / task.inversion.successes.total / task.inversion.failures.total
//   - task.steps.total: gauge of the step count
//   - task.duration.ms: gauge of the last traversal duration
//
// Traces:
//   - task.run / task.inverse: parent span per traversal
//   - task.step: child span per step, tagged with number, name, direction
//
// Events (via hooks):
//   - task.step_complete: fired as each step finishes, both directions
//   - task.complete: fired when a traversal finishes successfully
type Task struct {
	steps []step

	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[TaskEvent]

	mu    sync.RWMutex
	clock clockz.Clock
}

// newTask builds the immutable Task for a taken step sequence.
func newTask(steps []step) *Task {
	metrics := metricz.New()
	metrics.Counter(TaskRunsTotal)
	metrics.Counter(TaskRunSuccessesTotal)
	metrics.Counter(TaskRunFailuresTotal)
	metrics.Counter(TaskInversionsTotal)
	metrics.Counter(TaskInversionSuccessesTotal)
	metrics.Counter(TaskInversionFailuresTotal)
	metrics.Gauge(TaskStepsTotal)
	metrics.Gauge(TaskDurationMs)
	metrics.Gauge(TaskStepsTotal).Set(float64(len(steps)))

	t := &Task{
		steps:   steps,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[TaskEvent](),
	}

	inverses := 0
	for _, st := range steps {
		if st.hasInverse {
			inverses++
		}
	}
	capitan.Info(context.Background(), SignalTaskCompiled,
		FieldName.Field(t.String()),
		FieldSteps.Field(len(steps)),
		FieldInverses.Field(inverses),
		FieldTimestamp.Field(float64(time.Now().Unix())),
	)
	if inverses == 0 {
		capitan.Info(context.Background(), SignalInverseDegenerate,
			FieldName.Field(t.String()),
			FieldSteps.Field(len(steps)),
			FieldTimestamp.Field(float64(time.Now().Unix())),
		)
	}

	return t
}

// Run executes the pipeline forward: args feed the first step, each step's
// result threads into the next (a Tuple result spreads into positional
// arguments), and the final step's output is returned.
//
// An error from a user transform stops the traversal and is returned
// wrapped in *StepError; partial progress is discarded. The context is
// checked before each step, so cancellation and deadlines cut the
// traversal short with a *StepError flagged accordingly.
func (t *Task) Run(ctx context.Context, args ...any) (any, error) {
	return t.run(ctx, Frame{}, args...)
}

// Inverse executes the pipeline backward: args feed the last step's inverse
// transform, each result threads into the previous step's inverse, and the
// first step's output is returned. Steps without a registered inverse apply
// the identity transform, so a pipeline with no inverses anywhere returns
// its input unchanged.
func (t *Task) Inverse(ctx context.Context, args ...any) (any, error) {
	return t.inverse(ctx, Frame{}, args...)
}

func (t *Task) run(ctx context.Context, fr Frame, args ...any) (any, error) {
	return t.traverse(ctx, fr, false, args)
}

func (t *Task) inverse(ctx context.Context, fr Frame, args ...any) (any, error) {
	return t.traverse(ctx, fr, true, args)
}

// traverse is the shared engine for both execution orders. Forward walks
// the steps as declared applying forward transforms; inverse walks them in
// reverse applying inverse transforms. Threading is identical either way.
func (t *Task) traverse(ctx context.Context, fr Frame, inverse bool, args []any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := t.getClock()

	spanKey := TaskRunSpan
	total, successes, failures := TaskRunsTotal, TaskRunSuccessesTotal, TaskRunFailuresTotal
	direction := "forward"
	if inverse {
		spanKey = TaskInverseSpan
		total, successes, failures = TaskInversionsTotal, TaskInversionSuccessesTotal, TaskInversionFailuresTotal
		direction = "inverse"
	}

	t.metrics.Counter(total).Inc()
	start := clock.Now()

	ctx, traversalSpan := t.tracer.StartSpan(ctx, spanKey)
	traversalSpan.SetTag(TaskTagStepCount, fmt.Sprintf("%d", len(t.steps)))
	traversalSpan.SetTag(TaskTagDirection, direction)

	var err error
	defer func() {
		elapsed := clock.Now().Sub(start)
		t.metrics.Gauge(TaskDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			traversalSpan.SetTag(TaskTagSuccess, "true")
			t.metrics.Counter(successes).Inc()
		} else {
			traversalSpan.SetTag(TaskTagSuccess, "false")
			traversalSpan.SetTag(TaskTagError, err.Error())
			t.metrics.Counter(failures).Inc()
		}
		traversalSpan.Finish()
	}()

	var out any
	current := args
	completed := 0

	for n := range t.steps {
		index := n
		if inverse {
			index = len(t.steps) - 1 - n
		}
		st := t.steps[index]

		select {
		case <-ctx.Done():
			err = &StepError{
				Err:       ctx.Err(),
				Args:      current,
				Step:      st.identity.Name(),
				Path:      []Name{st.identity.Name()},
				Index:     index,
				Inverse:   inverse,
				Timeout:   errors.Is(ctx.Err(), context.DeadlineExceeded),
				Canceled:  errors.Is(ctx.Err(), context.Canceled),
				Timestamp: clock.Now(),
			}
			return nil, err
		default:
		}

		fn := st.forward
		if inverse {
			fn = st.inverse
		}

		stepCtx, stepSpan := t.tracer.StartSpan(ctx, TaskStepSpan)
		stepSpan.SetTag(TaskTagStepNumber, fmt.Sprintf("%d", n+1))
		stepSpan.SetTag(TaskTagStepName, string(st.identity.Name()))
		stepSpan.SetTag(TaskTagDirection, direction)

		stepStart := clock.Now()
		out, err = fn(stepCtx, fr, current...)
		stepDuration := clock.Now().Sub(stepStart)
		stepSpan.Finish()

		_ = t.hooks.Emit(ctx, TaskEventStepComplete, TaskEvent{ //nolint:errcheck
			StepName:   st.identity.Name(),
			StepNumber: n + 1,
			TotalSteps: len(t.steps),
			Inverse:    inverse,
			Success:    err == nil,
			Error:      err,
			Duration:   stepDuration,
			Timestamp:  time.Now(),
		})

		if err != nil {
			err = wrapStepError(err, st.identity.Name(), index, inverse, current, stepDuration, clock.Now())
			return nil, err
		}

		completed++
		current = spread(out)
	}

	_ = t.hooks.Emit(ctx, TaskEventComplete, TaskEvent{ //nolint:errcheck
		TotalSteps:     len(t.steps),
		CompletedSteps: completed,
		Inverse:        inverse,
		Success:        true,
		TotalDuration:  clock.Now().Sub(start),
		Timestamp:      time.Now(),
	})

	return out, nil
}

// wrapStepError attaches step context to a transform failure. A *StepError
// bubbling out of a nested task keeps its identity and gains the wrapping
// step's name at the head of its path.
func wrapStepError(err error, name Name, index int, inverse bool, args []any, duration time.Duration, now time.Time) error {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		stepErr.Path = append([]Name{name}, stepErr.Path...)
		return stepErr
	}
	return &StepError{
		Err:       err,
		Args:      args,
		Step:      name,
		Path:      []Name{name},
		Index:     index,
		Inverse:   inverse,
		Duration:  duration,
		Timestamp: now,
	}
}

// Component re-wraps the compiled Task as a fresh, single-use Component so
// a sub-pipeline can be folded into an outer pipeline. The nested steps
// execute one Frame level deeper than the wrapping pipeline, and a nested
// failure surfaces with the wrapping step's name prepended to its path.
//
// The Component shares the Task's steps and observability; the Task itself
// remains usable.
func (t *Task) Component(identity Identity) *Component {
	return &Component{
		identity: identity,
		st: step{
			identity: identity,
			forward: func(ctx context.Context, fr Frame, args ...any) (any, error) {
				return t.run(ctx, fr.Nested(), args...)
			},
			inverse: func(ctx context.Context, fr Frame, args ...any) (any, error) {
				return t.inverse(ctx, fr.Nested(), args...)
			},
			hasInverse: true,
		},
	}
}

// Len returns the number of steps in the Task.
func (t *Task) Len() int {
	return len(t.steps)
}

// Names returns the step names in forward execution order.
func (t *Task) Names() []Name {
	names := make([]Name, len(t.steps))
	for i, st := range t.steps {
		names[i] = st.identity.Name()
	}
	return names
}

// Descriptions returns the step descriptions in forward execution order;
// entries may be empty.
func (t *Task) Descriptions() []string {
	descriptions := make([]string, len(t.steps))
	for i, st := range t.steps {
		descriptions[i] = st.identity.Description()
	}
	return descriptions
}

// String renders the pipeline as "a -> b -> c".
func (t *Task) String() string {
	return strings.Join(t.Names(), " -> ")
}

// Metrics returns the metrics registry for this task.
func (t *Task) Metrics() *metricz.Registry {
	return t.metrics
}

// Tracer returns the tracer for this task.
func (t *Task) Tracer() *tracez.Tracer {
	return t.tracer
}

// WithClock sets a custom clock for timestamps and durations, typically a
// fake clock in tests. Call before the first Run or Inverse. Returns the
// task for chaining.
func (t *Task) WithClock(clock clockz.Clock) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock = clock
	return t
}

// getClock returns the configured clock, defaulting to the real clock.
func (t *Task) getClock() clockz.Clock {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.clock == nil {
		return clockz.RealClock
	}
	return t.clock
}

// Close gracefully shuts down the task's observability components.
func (t *Task) Close() error {
	if t.tracer != nil {
		t.tracer.Close()
	}
	t.hooks.Close()
	return nil
}

// OnStepComplete registers a handler called asynchronously each time a step
// finishes, in either direction, whether it succeeded or failed.
func (t *Task) OnStepComplete(handler func(context.Context, TaskEvent) error) error {
	_, err := t.hooks.Hook(TaskEventStepComplete, handler)
	return err
}

// OnComplete registers a handler called asynchronously after a full forward
// or inverse traversal finishes without errors.
func (t *Task) OnComplete(handler func(context.Context, TaskEvent) error) error {
	_, err := t.hooks.Hook(TaskEventComplete, handler)
	return err
}
