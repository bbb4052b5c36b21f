package invz

import (
	"context"
	"fmt"
)

// Generator is a reusable factory for function-based pipeline steps. It
// captures a transform's Identity and its forward (and optionally inverse)
// template at registration time; every New call binds a concrete
// configuration into the templates and returns a fresh, single-use
// Component.
//
// A Generator is a factory, not a resource: it is immutable once configured
// and may be invoked arbitrarily many times. Components produced by separate
// New calls are fully independent - consuming one has no effect on the
// others.
//
// Example:
//
//	type RoundConfig struct {
//	    Digits int
//	}
//
//	var Round = invz.Register(invz.NewIdentity("round", "Rounds to a digit count."),
//	    func(_ context.Context, _ invz.Frame, cfg RoundConfig, args ...any) (any, error) {
//	        factor := math.Pow(10, float64(cfg.Digits))
//	        return math.Round(args[0].(float64)*factor) / factor, nil
//	    })
type Generator[C any] struct {
	identity Identity
	forward  ConfigFunc[C]
	inverse  ConfigFunc[C]
}

// Register creates a Generator from a forward transform template. The
// Identity is declared explicitly and never changes. Register panics if
// forward is nil - a structural misconfiguration that must fail at
// registration time, not at first execution.
//
// The inverse defaults to the identity transform; pair the forward with an
// explicit inverse via WithInverse.
func Register[C any](identity Identity, forward ConfigFunc[C]) *Generator[C] {
	if forward == nil {
		panic(fmt.Sprintf("invz: Register %q: nil forward transform", identity.Name()))
	}
	return &Generator[C]{
		identity: identity,
		forward:  forward,
	}
}

// WithInverse registers the transform's paired inverse template and returns
// the generator for chaining. Call it once, at registration time, before the
// generator is shared. Panics if inverse is nil.
func (g *Generator[C]) WithInverse(inverse ConfigFunc[C]) *Generator[C] {
	if inverse == nil {
		panic(fmt.Sprintf("invz: WithInverse %q: nil inverse transform", g.identity.Name()))
	}
	g.inverse = inverse
	return g
}

// New binds cfg into the generator's templates and returns a fresh
// Component. If the configuration type implements Validator, validation
// runs now and a failure surfaces as a configuration error at the
// Component's first composition point (Then, Chain, or ToTask).
func (g *Generator[C]) New(cfg C) *Component {
	if err := validateConfig(g.identity, cfg); err != nil {
		return &Component{identity: g.identity, buildErr: err}
	}

	forward := g.forward
	st := step{
		identity: g.identity,
		forward: func(ctx context.Context, fr Frame, args ...any) (any, error) {
			return forward(ctx, fr, cfg, args...)
		},
		inverse: identityTransform,
	}
	if g.inverse != nil {
		inverse := g.inverse
		st.inverse = func(ctx context.Context, fr Frame, args ...any) (any, error) {
			return inverse(ctx, fr, cfg, args...)
		}
		st.hasInverse = true
	}

	return &Component{identity: g.identity, st: st}
}

// Identity returns the generator's metadata.
func (g *Generator[C]) Identity() Identity {
	return g.identity
}

// Name returns the generator's name.
func (g *Generator[C]) Name() Name {
	return g.identity.Name()
}

// Description returns the generator's description, which may be empty.
func (g *Generator[C]) Description() string {
	return g.identity.Description()
}

// validateConfig runs the optional Validator hook on a configuration value.
func validateConfig(identity Identity, cfg any) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("component %q: invalid configuration: %w", identity.Name(), err)
	}
	return nil
}
