package invz

import (
	"context"
	"fmt"
)

// Transformer is the forward half of an instance-based pipeline step. A
// value constructed by a ClassGenerator keeps configuration and any internal
// caches on itself for the lifetime of the single Component it backs, which
// suits transforms with several related parameters or precomputed state.
type Transformer interface {
	Call(ctx context.Context, fr Frame, args ...any) (any, error)
}

// Inverter is implemented by Transformers that can undo their forward
// transform. The interface assertion replaces a method-presence check: an
// instance that satisfies Inverter contributes its Inverse to reverse
// execution, any other instance contributes the identity transform.
type Inverter interface {
	Transformer
	Inverse(ctx context.Context, fr Frame, args ...any) (any, error)
}

// ClassGenerator is a reusable factory for instance-based pipeline steps.
// Where Generator binds configuration into closures, ClassGenerator hands
// the configuration to a constructor and wires the resulting instance's
// Call (and Inverse, when present) into the Component.
//
// Example:
//
//	type SubtractConfig struct {
//	    B     int
//	    Twice bool
//	}
//
//	type subtractOp struct {
//	    cfg SubtractConfig
//	}
//
//	func (s *subtractOp) Call(_ context.Context, _ invz.Frame, args ...any) (any, error) {
//	    b := s.cfg.B
//	    if s.cfg.Twice {
//	        b *= 2
//	    }
//	    return args[0].(int) - b, nil
//	}
//
//	func (s *subtractOp) Inverse(_ context.Context, _ invz.Frame, args ...any) (any, error) {
//	    b := s.cfg.B
//	    if s.cfg.Twice {
//	        b *= 2
//	    }
//	    return args[0].(int) + b, nil
//	}
//
//	var Subtract = invz.RegisterClass(invz.NewIdentity("subtract", "Subtracts a constant."),
//	    func(cfg SubtractConfig) (invz.Transformer, error) {
//	        return &subtractOp{cfg: cfg}, nil
//	    })
type ClassGenerator[C any] struct {
	identity  Identity
	construct func(C) (Transformer, error)
}

// RegisterClass creates a ClassGenerator from an instance constructor.
// Panics if construct is nil; the misconfiguration must fail at
// registration time, not at first execution.
func RegisterClass[C any](identity Identity, construct func(C) (Transformer, error)) *ClassGenerator[C] {
	if construct == nil {
		panic(fmt.Sprintf("invz: RegisterClass %q: nil constructor", identity.Name()))
	}
	return &ClassGenerator[C]{
		identity:  identity,
		construct: construct,
	}
}

// New validates cfg, constructs a fresh instance, and returns a Component
// backed by it. Validation and construction failures surface as
// configuration errors at the Component's first composition point; each New
// call builds an independent instance, so Components from the same
// ClassGenerator never share state.
func (g *ClassGenerator[C]) New(cfg C) *Component {
	if err := validateConfig(g.identity, cfg); err != nil {
		return &Component{identity: g.identity, buildErr: err}
	}

	instance, err := g.construct(cfg)
	if err != nil {
		return &Component{
			identity: g.identity,
			buildErr: fmt.Errorf("component %q: construction failed: %w", g.identity.Name(), err),
		}
	}
	if instance == nil {
		return &Component{
			identity: g.identity,
			buildErr: fmt.Errorf("component %q: construction returned nil instance", g.identity.Name()),
		}
	}

	st := step{
		identity: g.identity,
		forward:  instance.Call,
		inverse:  identityTransform,
	}
	if inv, ok := instance.(Inverter); ok {
		st.inverse = inv.Inverse
		st.hasInverse = true
	}

	return &Component{identity: g.identity, st: st}
}

// Identity returns the generator's metadata.
func (g *ClassGenerator[C]) Identity() Identity {
	return g.identity
}

// Name returns the generator's name.
func (g *ClassGenerator[C]) Name() Name {
	return g.identity.Name()
}

// Description returns the generator's description, which may be empty.
func (g *ClassGenerator[C]) Description() string {
	return g.identity.Description()
}
